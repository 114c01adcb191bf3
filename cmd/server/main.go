// Package main implements the flashcards API server: it turns study text
// into flashcards through a completion provider and stores named
// collections per user.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/flashcards-api/internal/config"
	"github.com/phrazzld/flashcards-api/internal/platform/logger"
	"github.com/phrazzld/flashcards-api/internal/platform/postgres"
	"github.com/phrazzld/flashcards-api/internal/service/auth"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "flashcards-api",
		Short:         "Flashcard generation and collection API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./config.yaml if present)")

	root.AddCommand(
		serveCmd(&configPath),
		migrateCmd(&configPath),
		tokenCmd(&configPath),
	)
	return root
}

// loadConfig reads configuration and sets up the process logger.
func loadConfig(configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.Bool("billing_enabled", cfg.Billing.Enabled()))

	return cfg, l, nil
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx, cfg, l)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.cleanup()

			return app.Run(ctx)
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate {up|down|status}",
		Short:     "Apply, roll back or inspect the Postgres schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("database.url is required for migrations")
			}

			ctx := cmd.Context()
			db, err := setupAppDatabase(ctx, cfg.Database, l)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					l.Error("failed to close database connection", slog.Any("error", err))
				}
			}()

			return postgres.Migrate(ctx, db, args[0], l)
		},
	}
}

func tokenCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Print a development bearer token (hmac auth mode only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Auth.Mode != config.AuthModeHMAC {
				return fmt.Errorf("tokens can only be issued in %s auth mode", config.AuthModeHMAC)
			}

			v, err := auth.NewHMACVerifier(cfg.Auth, l)
			if err != nil {
				return err
			}
			token, err := v.IssueToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
