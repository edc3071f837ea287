// Package cli wires configuration, logging and the backends into the
// todosum command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/todosum/internal/ui"
)

// Streams are the terminal the commands talk to.
type Streams struct {
	In       io.Reader
	Out, Err io.Writer
}

// globals holds the persistent root flags.
type globals struct {
	configPath string
	verbose    bool
	streams    Streams
}

// usageError marks a mistake in how the command was invoked (exit 2).
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// reportedError has already been shown to the user by a notifier.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Run executes the command line and returns an exit code (0 ok, 1 error,
// 2 usage).
func Run(args []string) int {
	return run(args, Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
}

func run(args []string, s Streams) int {
	root := newRoot(&globals{streams: s})
	root.SetArgs(args)
	root.SetIn(s.In)
	root.SetOut(s.Out)
	root.SetErr(s.Err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var rep reportedError
	if !errors.As(err, &rep) {
		(&ui.Printer{Out: s.Out, Err: s.Err}).Error(err.Error())
	}
	var use usageError
	if errors.As(err, &use) {
		return 2
	}
	return 1
}

func newRoot(g *globals) *cobra.Command {
	root := &cobra.Command{
		Use:   "todosum",
		Short: "Todo list with AI summaries",
		Long: `todosum keeps a todo list in a remote table and asks a remote function
to summarize what is still pending.

Run without arguments for the interactive view.`,
		Args:          usageArgs(cobra.NoArgs),
		RunE:          g.runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default ~/.todosum/config.yaml)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		g.lsCmd(),
		g.addCmd(),
		g.doneCmd(),
		g.editCmd(),
		g.rmCmd(),
		g.summarizeCmd(),
		g.authCmd(),
		g.configCmd(),
		g.devServerCmd(),
	)
	return root
}

// usageArgs turns argument validation failures into usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{fmt.Errorf("%w\nusage: %s", err, cmd.UseLine())}
		}
		return nil
	}
}

func (g *globals) printer() *ui.Printer {
	return &ui.Printer{Out: g.streams.Out, Err: g.streams.Err}
}
