package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/waypost/waypost/internal/config"
	"github.com/waypost/waypost/internal/llm"
	"github.com/waypost/waypost/internal/logging"
	"github.com/waypost/waypost/internal/relay"
	"github.com/waypost/waypost/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the relay server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Relay.Port = port
			}
			if bind != "" {
				cfg.Relay.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			// Rebuild the logger honoring configured style and level.
			if logLevel == "" {
				log = logging.NewConsole(cfg.Logging.Level, cfg.Logging.ConsoleStyle)
			}

			ttl := time.Duration(cfg.Connections.TTLHours) * time.Hour

			var conns store.ConnectionStore
			if cfg.Connections.Store == "sqlite" {
				dbPath := filepath.Join(paths.Data, "waypost.db")
				db, err := store.Open(dbPath, log)
				if err != nil {
					return fmt.Errorf("opening database: %w", err)
				}
				defer db.Close()
				conns = store.NewSQLiteConnectionStore(db, ttl)
				log.Info().Str("path", dbPath).Msg("using SQLite connection store")
			} else {
				conns = store.NewMemoryConnectionStore(ttl)
				log.Info().Msg("using in-memory connection store")
			}

			client := llm.NewOpenAIClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, log)

			registry := relay.NewRegistry(log.Sub("clients"))
			pusher := relay.NewPusher(registry, conns, log)
			rel := relay.NewRelay(relay.RelayConfig{
				Model:       cfg.LLM.Model,
				TitleModel:  cfg.LLM.TitleModel,
				MaxTokens:   cfg.LLM.MaxTokens,
				Temperature: cfg.LLM.Temperature,
			}, client, pusher, log)

			srv := relay.NewServer(cfg, registry, conns, rel, log)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override relay port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}
