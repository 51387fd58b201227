package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/greenbasket/greenbasket/internal/assistant"
	"github.com/greenbasket/greenbasket/internal/config"
	"github.com/greenbasket/greenbasket/internal/gateway"
	"github.com/greenbasket/greenbasket/internal/llm"
	"github.com/greenbasket/greenbasket/internal/logging"
	"github.com/greenbasket/greenbasket/internal/repo"
	"github.com/greenbasket/greenbasket/internal/store"
	"github.com/greenbasket/greenbasket/internal/tools"
	"github.com/greenbasket/greenbasket/internal/version"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the assistant gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Server.Port = port
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			dbPath := paths.DatabasePath(&cfg)
			db, err := repo.Open(dbPath, log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()
			log.Info().Str("path", dbPath).Msg("database ready")

			var conversations store.ConversationStore
			if cfg.Session.Store == "memory" {
				conversations = store.NewMemoryStore()
				log.Info().Msg("using in-memory conversation store")
			} else {
				conversations = store.NewSQLiteStore(db, log)
				log.Info().Msg("using SQLite conversation store")
			}

			engine, err := buildEngine(cfg, repo.NewSQLite(db), log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := gateway.NewServer(cfg, engine, conversations, version.Version, log)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}

// buildEngine assembles the provider registry, tool executor and
// assistant engine from config.
func buildEngine(cfg config.Config, repos repo.Repos, log *logging.Logger) (*assistant.Engine, error) {
	registry := llm.NewRegistry(log)
	registry.Register("openai", llm.NewOpenAIClient(cfg.Completion.BaseURL, cfg.Completion.APIKey, cfg.Completion.Model))
	registry.Alias(cfg.Completion.Model, "openai")
	for _, fb := range cfg.Completion.Fallbacks {
		registry.Alias(fb, "openai")
	}
	registry.SetFallback("openai")

	client, err := registry.Resolve(cfg.Completion.Model)
	if err != nil {
		return nil, err
	}

	executor := tools.NewExecutor(repos, log)
	engine := assistant.New(assistant.Config{
		Model:       cfg.Completion.Model,
		MaxTokens:   cfg.Completion.MaxTokens,
		Temperature: cfg.Completion.Temperature,
	}, client, executor, repos, log)
	return engine, nil
}
