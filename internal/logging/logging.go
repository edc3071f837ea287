// Package logging builds the leveled logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type Options struct {
	Level   string
	File    string // empty: write to Stderr
	Verbose bool   // forces debug level
	Prefix  string
}

// New returns a logger and a close func for the file it may have opened.
func New(opts Options) (*log.Logger, func() error, error) {
	level := log.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		l, err := log.ParseLevel(s)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	if opts.Verbose {
		level = log.DebugLevel
	}

	var (
		w       io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return nil, nil, fmt.Errorf("log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, f.Close
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return logger, closeFn, nil
}
