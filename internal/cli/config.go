package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/todosum/internal/config"
)

func (g *globals) path() string {
	if g.configPath != "" {
		return g.configPath
	}
	return config.DefaultPath()
}

func (g *globals) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration, secrets masked",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(*cobra.Command, []string) error {
				cfg, err := config.Load(g.configPath)
				if err != nil {
					return err
				}
				b, err := cfg.Redacted().YAML()
				if err != nil {
					return fmt.Errorf("marshal config: %w", err)
				}
				fmt.Fprintf(g.streams.Out, "# %s (environment applied)\n%s", g.path(), b)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Args:  usageArgs(cobra.NoArgs),
			Run: func(*cobra.Command, []string) {
				fmt.Fprintln(g.streams.Out, g.path())
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a starter configuration file",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(*cobra.Command, []string) error {
				p := g.path()
				if err := config.WriteDefault(p); err != nil {
					return err
				}
				g.printer().Success("wrote " + p)
				return nil
			},
		},
	)
	return cmd
}
