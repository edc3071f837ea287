package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/todosum/internal/app"
	"github.com/Makepad-fr/todosum/internal/model"
	"github.com/Makepad-fr/todosum/internal/tui"
)

// withShell opens a session, loads the list and runs fn against it.
func (g *globals) withShell(cmd *cobra.Command, fn func(ctx context.Context, s *session, sh *app.Shell) error) error {
	ctx := cmd.Context()
	s, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	sh, err := s.shell(ctx, g.printer())
	if err != nil {
		return err
	}
	err = fn(ctx, s, sh)
	var appErr *app.Error
	if errors.As(err, &appErr) {
		// the notifier already printed it
		return reportedError{err}
	}
	return err
}

func (g *globals) runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := g.open(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	s.log.Info("starting interactive session", "backend", s.cfg.Backend)
	return tui.Run(ctx, s.ctrl, tui.Options{
		DateFormat: s.cfg.UI.DateFormat,
		Timeout:    s.cfg.Remote.Timeout,
	})
}

func (g *globals) lsCmd() *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List todos, newest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withShell(cmd, func(_ context.Context, s *session, sh *app.Shell) error {
				fmt.Fprintln(g.streams.Out, renderList(sh.State().Tasks(), group, s.cfg.UI.DateFormat))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func (g *globals) addCmd() *cobra.Command {
	var desc string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a todo (title can be multiple words)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usagef("add: empty title")
			}
			return g.withShell(cmd, func(ctx context.Context, _ *session, sh *app.Shell) error {
				return sh.AddTodo(ctx, title, model.Text(desc))
			})
		},
	}
	cmd.Flags().StringVarP(&desc, "description", "d", "", "optional description")
	return cmd
}

func (g *globals) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for the todo at a 1-based index",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withShell(cmd, func(ctx context.Context, _ *session, sh *app.Shell) error {
				t, err := g.pick(sh, "done", args[0])
				if err != nil {
					return err
				}
				return sh.UpdateTodo(ctx, t.ID, model.TogglePatch(t))
			})
		},
	}
}

func (g *globals) editCmd() *cobra.Command {
	var (
		title, desc string
		clearDesc   bool
	)
	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Change the title or description of a todo",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("description") && !clearDesc {
				return usagef("edit: nothing to change (use --title, --description or --clear-description)")
			}
			if clearDesc && flags.Changed("description") {
				return usagef("edit: --description and --clear-description are exclusive")
			}
			if flags.Changed("title") && strings.TrimSpace(title) == "" {
				return usagef("edit: empty title")
			}
			return g.withShell(cmd, func(ctx context.Context, _ *session, sh *app.Shell) error {
				t, err := g.pick(sh, "edit", args[0])
				if err != nil {
					return err
				}
				var p model.Patch
				if flags.Changed("title") {
					s := strings.TrimSpace(title)
					p.Title = &s
				}
				switch {
				case clearDesc:
					none := model.None[string]()
					p.Description = &none
				case flags.Changed("description"):
					d := model.Text(desc)
					p.Description = &d
				}
				return sh.UpdateTodo(ctx, t.ID, p)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&desc, "description", "d", "", "new description (blank clears it)")
	cmd.Flags().BoolVar(&clearDesc, "clear-description", false, "remove the description")
	return cmd
}

func (g *globals) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove the todo at a 1-based index",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withShell(cmd, func(ctx context.Context, _ *session, sh *app.Shell) error {
				t, err := g.pick(sh, "rm", args[0])
				if err != nil {
					return err
				}
				return sh.DeleteTodo(ctx, t.ID)
			})
		},
	}
}

func (g *globals) summarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Summarize pending todos and send them to the team channel",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withShell(cmd, func(ctx context.Context, _ *session, sh *app.Shell) error {
				return sh.GenerateSummary(ctx)
			})
		},
	}
}

// pick resolves a 1-based index in the `ls` ordering.
func (g *globals) pick(sh *app.Shell, verb, arg string) (model.Task, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return model.Task{}, usagef("%s: not a number: %s", verb, arg)
	}
	tasks := sh.State().Tasks()
	if n < 1 || n > len(tasks) {
		g.printer().Hint("Hint: run `todosum ls` to see valid indexes")
		return model.Task{}, usagef("index out of range: have %d, got %d", len(tasks), n)
	}
	return tasks[n-1], nil
}
