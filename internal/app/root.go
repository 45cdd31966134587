// Package app wires configuration, storage and HTTP serving behind the
// sentiment-board command line.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/msomdec/sentiment-board/internal/config"
	"github.com/msomdec/sentiment-board/internal/domain"
	"github.com/msomdec/sentiment-board/internal/logger"
	"github.com/msomdec/sentiment-board/internal/repository/postgres"
	"github.com/msomdec/sentiment-board/internal/repository/sqlite"
)

// App holds state shared by the subcommands. It is filled in by the root
// command before any subcommand runs.
type App struct {
	Config *config.Config

	logCloser io.Closer
}

// NewRootCmd builds the root command and registers the subcommands.
func NewRootCmd() *cobra.Command {
	app := &App{}
	var envFile string

	cmd := &cobra.Command{
		Use:   "sentiment-board",
		Short: "Sentiment analysis web application",
		Long: `sentiment-board serves a small web application where signed-in users
submit text, get a sentiment label and confidence back, and keep a history of
their analyses.

Commands:
  serve        Run the HTTP server (default)
  migrate      Apply database migrations and exit
  createuser   Create an account from the terminal
  healthcheck  Probe a running server's /healthz endpoint
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			app.Config = cfg
			app.logCloser = logger.SetupDefault(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.logCloser != nil {
				return app.logCloser.Close()
			}
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default .env when present)")

	serveCmd := NewServeCmd(app)
	cmd.AddCommand(serveCmd)
	cmd.AddCommand(NewMigrateCmd(app))
	cmd.AddCommand(NewCreateUserCmd(app))
	cmd.AddCommand(NewHealthcheckCmd(app))

	// Running the binary without a subcommand serves, like the plain server did.
	cmd.RunE = serveCmd.RunE

	return cmd
}

// Execute runs the command line and exits with status 1 on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase opens the configured backend. The caller owns the result.
func openDatabase(ctx context.Context, cfg *config.Config) (domain.Database, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil
	default:
		db, err := sqlite.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, nil
	}
}

// maskDatabaseURL hides credentials in a DSN before it is logged.
func maskDatabaseURL(cfg *config.Config) string {
	if cfg.DatabaseDriver == config.DriverSQLite {
		return cfg.DatabaseURL
	}
	if len(cfg.DatabaseURL) > 20 {
		return cfg.DatabaseURL[:12] + "***@..."
	}
	return "***"
}

func openAndMigrate(ctx context.Context, cfg *config.Config) (domain.Database, error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("database opened", "driver", cfg.DatabaseDriver, "database_url", maskDatabaseURL(cfg))

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}
