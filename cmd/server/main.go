package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/blainea-sys/kcj-quote-app/internal/config"
	"github.com/blainea-sys/kcj-quote-app/internal/db"
	"github.com/blainea-sys/kcj-quote-app/internal/logging"
	"github.com/blainea-sys/kcj-quote-app/internal/migrations"
	"github.com/blainea-sys/kcj-quote-app/internal/seed"
	"github.com/blainea-sys/kcj-quote-app/internal/settings"
)

type server struct {
	auth   *authService
	db     *sql.DB
	store  *settings.Store
	logger *zap.Logger

	// settingsPath, when set, receives a copy of the settings document on
	// every save so the file stays usable for backup and re-import.
	settingsPath string
}

func main() {
	cfg := config.Load()

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	if cfg.IsDev() {
		logCfg.Format = "console"
		logCfg.Development = true
	}
	logger := logging.New(logCfg)
	defer logger.Sync()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("open database", zap.Error(err), zap.String("path", cfg.DBPath))
	}
	defer database.Close()

	schemaVersion, err := migrations.Up(database, "migrations")
	if err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}
	logger.Info("schema ready", zap.Int64("version", schemaVersion))

	stats, err := seed.Run(database, cfg.AppPassword, cfg.SettingsPath)
	if err != nil {
		logger.Fatal("seed database", zap.Error(err))
	}
	if stats.Inserts+stats.Updates > 0 {
		logger.Info("seeded database", zap.Int("inserts", stats.Inserts), zap.Int("updates", stats.Updates))
	}

	srv := &server{
		auth:         newAuthService(database, cfg.SessionSecret),
		db:           database,
		store:        settings.NewStore(database),
		logger:       logger,
		settingsPath: cfg.SettingsPath,
	}

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/meta", s.handleMeta)
		r.Get("/settings", s.handleSettingsGet)
		r.Put("/settings", s.handleSettingsPut)
		r.Post("/quotes/preview", s.handleQuotePreview)
		r.Post("/quotes", s.handleQuoteCreate)
		r.Get("/quotes", s.handleQuotesList)
		r.Get("/quotes/{id}", s.handleQuoteGet)
		r.Get("/quotes/{id}/text", s.handleQuoteText)
	})

	return r
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAuthenticated(r, s.auth) {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
