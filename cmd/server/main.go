package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tabscan/tabscan/internal/auth"
	"github.com/tabscan/tabscan/internal/config"
	"github.com/tabscan/tabscan/internal/middleware"
	"github.com/tabscan/tabscan/internal/obs"
	"github.com/tabscan/tabscan/internal/service"
	"github.com/tabscan/tabscan/internal/storage/sqlite"
	"github.com/tabscan/tabscan/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	metrics := obs.NewMetrics(nil)

	splitSvc := service.NewSplitService(store, cfg.SplitOptions(), metrics)
	authSvc := service.NewAuthService(authenticator, tokens)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))
	r.Use(middleware.RequestLogger)
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	authSvc.RegisterRoutes(r)
	splitSvc.RegisterRoutes(r, middleware.RequireAuth(tokens))

	// h2c lets clients speak HTTP/2 without TLS when a proxy terminates it.
	handler := h2c.NewHandler(r, &http2.Server{})

	addr := cfg.HTTPAddr()
	slog.Info("Server starting", "address", addr, "env", cfg.AppEnv)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) > 0 {
		return cfg.CORSAllowedOrigins
	}
	return []string{"*"}
}
