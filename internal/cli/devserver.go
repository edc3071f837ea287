package cli

import (
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/todosum/internal/devserver"
	"github.com/Makepad-fr/todosum/internal/logging"
)

func (g *globals) devServerCmd() *cobra.Command {
	var addr, dbPath string
	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run a local backend with the REST subset and the summary function",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			logger, closeLog, err := logging.New(logging.Options{
				Level:   cfg.Log.Level,
				File:    cfg.Log.File,
				Verbose: g.verbose,
				Prefix:  "dev",
			})
			if err != nil {
				return err
			}
			defer closeLog()

			if addr == "" {
				addr = cfg.Dev.Addr
			}
			if dbPath == "" {
				dbPath = cfg.Dev.DBPath
			}
			srv, err := devserver.New(devserver.Config{
				Addr:       addr,
				DBPath:     dbPath,
				Table:      cfg.Remote.Table,
				Function:   cfg.Remote.Function,
				WebhookURL: cfg.Dev.WebhookURL,
				JWTSecret:  cfg.Dev.JWTSecret,
				Logger:     logger,
			})
			if err != nil {
				return err
			}
			defer srv.Close()

			logger.Info("point the client at it", "SUPABASE_URL", "http://"+addr)
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite file (default from config)")
	return cmd
}
