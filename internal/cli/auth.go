package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/todosum/internal/auth"
	"github.com/Makepad-fr/todosum/internal/config"
	"github.com/Makepad-fr/todosum/internal/ui"
)

func (g *globals) credentials() (*auth.Credentials, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return auth.NewCredentials(dir), nil
}

func (g *globals) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token sent to the backend",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usagef("usage: todosum auth <login|logout|status|whoami>")
		},
	}
	cmd.AddCommand(
		&cobra.Command{Use: "login", Short: "Save a token", Args: usageArgs(cobra.NoArgs), RunE: g.authLogin},
		&cobra.Command{Use: "logout", Short: "Forget the saved token", Args: usageArgs(cobra.NoArgs), RunE: g.authLogout},
		&cobra.Command{Use: "status", Short: "Show where the token comes from", Args: usageArgs(cobra.NoArgs), RunE: g.authStatus},
		&cobra.Command{Use: "whoami", Short: "Decode the token claims", Args: usageArgs(cobra.NoArgs), RunE: g.authWhoAmI},
	)
	return cmd
}

func (g *globals) authLogin(_ *cobra.Command, _ []string) error {
	creds, err := g.credentials()
	if err != nil {
		return err
	}
	fmt.Fprint(g.streams.Out, "Paste your token: ")
	line, err := bufio.NewReader(g.streams.In).ReadString('\n')
	if err != nil && strings.TrimSpace(line) == "" {
		return fmt.Errorf("read token: %w", err)
	}
	if err := creds.Set(line, nil); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	g.printer().Success("logged in")
	return nil
}

func (g *globals) authLogout(_ *cobra.Command, _ []string) error {
	creds, err := g.credentials()
	if err != nil {
		return err
	}
	ti, _ := creds.Get()
	if ti != nil && ti.Source == auth.SourceEnv {
		g.printer().Success("token is provided by " + auth.EnvToken + " env var (nothing to delete)")
		return nil
	}
	if err := creds.Delete(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	g.printer().Success("logged out")
	return nil
}

func (g *globals) authStatus(_ *cobra.Command, _ []string) error {
	creds, err := g.credentials()
	if err != nil {
		return err
	}
	ti, err := creds.Get()
	if err != nil {
		return err
	}
	out := g.streams.Out
	if ti == nil {
		fmt.Fprintln(out, ui.Current().Muted.Render("not logged in"))
		fmt.Fprintln(out, "Run: todosum auth login")
		return nil
	}
	fmt.Fprintf(out, "source: %s\n", ti.Source)
	if ti.ExpiresAt != nil {
		state := ""
		if ti.Expired(time.Now()) {
			state = " (expired)"
		}
		fmt.Fprintf(out, "expires: %s%s\n", ti.ExpiresAt.UTC().Format(time.RFC3339), state)
	} else {
		fmt.Fprintln(out, "expires: (unknown)")
	}
	fmt.Fprintln(out, "env override: "+auth.EnvToken)
	return nil
}

// whoami decodes a JWT locally (unverified); opaque tokens print basic info.
func (g *globals) authWhoAmI(_ *cobra.Command, _ []string) error {
	creds, err := g.credentials()
	if err != nil {
		return err
	}
	ti, err := creds.Get()
	if err != nil {
		return err
	}
	if ti == nil {
		return usageError{errors.New("not logged in. Run: todosum auth login")}
	}
	out := g.streams.Out
	claims, err := auth.Claims(ti.Token)
	if err != nil {
		fmt.Fprintln(out, "Opaque token (cannot introspect locally).")
		fmt.Fprintln(out, "source:", ti.Source)
		return nil
	}
	b, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "JWT payload:")
	fmt.Fprintln(out, string(b))
	return nil
}
