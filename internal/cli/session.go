package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/todosum/internal/app"
	"github.com/Makepad-fr/todosum/internal/auth"
	"github.com/Makepad-fr/todosum/internal/config"
	"github.com/Makepad-fr/todosum/internal/logging"
	"github.com/Makepad-fr/todosum/internal/store"
	"github.com/Makepad-fr/todosum/internal/store/postgres"
	"github.com/Makepad-fr/todosum/internal/store/rest"
	"github.com/Makepad-fr/todosum/internal/summary"
	"github.com/Makepad-fr/todosum/internal/ui"
)

const logFileName = "todosum.log"

// session is everything a task command needs, built from config.
type session struct {
	cfg  *config.Config
	log  *log.Logger
	ctrl *app.Controller

	closers []func() error
}

func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// loadConfig reads the config and applies the UI theme.
func (g *globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	ui.SetTheme(cfg.UI.Theme)
	return cfg, nil
}

// open builds the logger, store and summarizer. With interactive set, logs
// go to a file so they do not draw over the terminal UI.
func (g *globals) open(ctx context.Context, interactive bool) (*session, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	logOpts := logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, Verbose: g.verbose}
	if interactive && logOpts.File == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		logOpts.File = filepath.Join(dir, logFileName)
	}
	logger, closeLog, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, log: logger, closers: []func() error{closeLog}}

	st, sum, err := s.backends(ctx)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.ctrl = app.NewController(st, sum, logger)
	return s, nil
}

func (s *session) backends(ctx context.Context) (store.Store, app.Summarizer, error) {
	token, err := s.token()
	if err != nil {
		return nil, nil, err
	}

	var remote *rest.Client
	if s.cfg.Remote.URL != "" {
		remote, err = rest.New(rest.Options{
			BaseURL: s.cfg.Remote.URL,
			APIKey:  s.cfg.Remote.AnonKey,
			Token:   token,
			Table:   s.cfg.Remote.Table,
			Timeout: s.cfg.Remote.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		s.closers = append(s.closers, remote.Close)
	}

	var sum app.Summarizer
	if remote != nil {
		sum = summary.New(remote, s.cfg.Remote.Function)
	}

	switch s.cfg.Backend {
	case config.BackendPostgres:
		pg, err := postgres.Open(ctx, postgres.Config{
			DSN:     s.cfg.Postgres.DSN,
			Table:   s.cfg.Postgres.Table,
			Timeout: s.cfg.Postgres.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		s.closers = append(s.closers, pg.Close)
		if sum == nil {
			s.log.Warn("no remote url configured; summaries are disabled")
		}
		return pg, sum, nil
	default:
		if remote == nil {
			return nil, nil, errors.New("remote url not set (SUPABASE_URL or remote.url); run `todosum config init`")
		}
		return remote, sum, nil
	}
}

// token returns the saved bearer token, or "" to fall back to the anon key.
func (s *session) token() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	ti, err := auth.NewCredentials(dir).Get()
	if err != nil {
		return "", fmt.Errorf("credentials: %w", err)
	}
	if ti == nil {
		return "", nil
	}
	if ti.Expired(time.Now()) {
		s.log.Warn("saved token has expired; using the anon key", "expired", ti.ExpiresAt)
		return "", nil
	}
	return ti.Token, nil
}

// shell loads the task list once so indexes can be resolved.
func (s *session) shell(ctx context.Context, n app.Notifier) (*app.Shell, error) {
	sh := app.NewShell(s.ctrl, n)
	if err := sh.Load(ctx); err != nil {
		return nil, reportedError{err}
	}
	return sh, nil
}
