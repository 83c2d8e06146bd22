package config

import (
	"log"
	"os"
)

const (
	defaultDBPath       = "./dev.db"
	defaultPort         = "8080"
	defaultSettingsPath = "settings.json"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	// AppPassword is the single shared password gating the app.
	AppPassword   string
	SessionSecret string
	DBPath        string
	// SettingsPath is an optional settings.json imported at startup when
	// no settings document is stored yet.
	SettingsPath string
	Port         string
	Env          string
	LogLevel     string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		AppPassword:   os.Getenv("APP_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBPath:        os.Getenv("DB_PATH"),
		SettingsPath:  os.Getenv("SETTINGS_PATH"),
		Port:          os.Getenv("PORT"),
		Env:           os.Getenv("APP_ENV"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.SettingsPath == "" {
		cfg.SettingsPath = defaultSettingsPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.AppPassword == "" {
		log.Print("warning: APP_PASSWORD is not set; no credential will be seeded and login is impossible")
	}
	if cfg.SessionSecret == "" {
		log.Print("warning: SESSION_SECRET is not set")
	}

	return cfg
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "" || c.Env == "dev" || c.Env == "development"
}
