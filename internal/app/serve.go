package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/msomdec/sentiment-board/internal/classifier"
	"github.com/msomdec/sentiment-board/internal/handler"
	"github.com/msomdec/sentiment-board/internal/metrics"
	"github.com/msomdec/sentiment-board/internal/nlp"
	"github.com/msomdec/sentiment-board/internal/service"
)

const sessionPurgeInterval = time.Hour

// NewServeCmd builds the serve command.
func NewServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, app)
		},
	}
}

func runServe(ctx context.Context, app *App) error {
	cfg := app.Config
	if err := cfg.RequireSecret(); err != nil {
		return err
	}

	db, err := openAndMigrate(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("database migrations applied")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	client := classifier.NewClient(classifier.Config{
		Endpoint: cfg.ClassifierURL,
		Token:    cfg.ClassifierToken,
		Timeout:  cfg.ClassifierTimeout,
	}, slog.Default(), collector)

	pipeline, err := nlp.NewDefaultPipeline(client)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	slog.Info("pipeline ready", "stages", pipeline.StageNames(), "classifier", cfg.ClassifierURL)

	authService := service.NewAuthService(db.Users(), db.Sessions(), service.AuthConfig{
		JWTSecret:  cfg.JWTSecret,
		BcryptCost: cfg.BcryptCost,
		SessionTTL: cfg.SessionTTL,
	}, collector)
	sentimentService := service.NewSentimentService(pipeline, db.Records(), collector)

	router := handler.NewRouter(handler.RouterDeps{
		Auth:         authService,
		Sentiments:   sentimentService,
		DB:           db,
		Logger:       slog.Default(),
		Metrics:      collector,
		Gatherer:     reg,
		CookieSecure: cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go purgeSessions(ctx, authService, sessionPurgeInterval)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// sessionPurger is the part of AuthService the purge loop needs.
type sessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// purgeSessions deletes expired sessions every interval until ctx ends.
func purgeSessions(ctx context.Context, auth sessionPurger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.PurgeExpiredSessions(ctx)
			if err != nil {
				slog.Error("purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired sessions purged", "count", n)
			}
		}
	}
}
