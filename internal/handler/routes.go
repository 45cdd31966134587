package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/msomdec/sentiment-board/internal/metrics"
	"github.com/msomdec/sentiment-board/internal/service"
)

// RouterDeps gathers what NewRouter needs.
type RouterDeps struct {
	Auth       *service.AuthService
	Sentiments *service.SentimentService
	DB         Pinger

	Logger   *slog.Logger
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	CookieSecure bool
}

// NewRouter builds the application's routes and middleware chain.
//
//	RequestID → RealIP → Logging → Recovery → SecurityHeaders → route
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(NewLoggingMiddleware(logger, deps.Metrics))
	r.Use(NewRecoveryMiddleware())
	r.Use(SecurityHeaders)

	authHandler := NewAuthHandler(deps.Auth, deps.CookieSecure)
	homeHandler := NewHomeHandler(deps.Sentiments, deps.CookieSecure)
	healthHandler := NewHealthHandler(deps.DB)

	// Probes and scrapes.
	r.Get("/healthz", healthHandler.HandleHealthz)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// Anonymous-only pages.
	r.Group(func(r chi.Router) {
		r.Use(RedirectIfAuthenticated(deps.Auth))

		r.Get("/register", authHandler.HandleRegisterPage)
		r.Post("/register", authHandler.HandleRegister)
		r.Get("/login", authHandler.HandleLoginPage)
		r.Post("/login", authHandler.HandleLogin)
	})

	// Signed-in pages.
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(deps.Auth, deps.CookieSecure))

		r.Get("/", homeHandler.HandleDashboard)
		r.Post("/analyze", homeHandler.HandleAnalyze)
		r.Get("/history", homeHandler.HandleHistory)
		r.Get("/logout", authHandler.HandleLogout)
	})

	return r
}
