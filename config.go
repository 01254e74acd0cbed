package folio

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string // Site name (default "Portfolio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name shown in the feed

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/folio.db")

	AdminEmail        string // Required: admin login email
	AdminPasswordHash string // Required: bcrypt hash of the admin password
	SessionSecret     string // Required: session encryption secret
	CookieSecure      bool   // Set true for HTTPS

	CacheTTL time.Duration // Public content cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/folio.db"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
}

// ConfigFromEnv loads SiteConfig from the environment, reading a .env
// file first if one exists (ignored in production when absent).
func ConfigFromEnv() SiteConfig {
	_ = godotenv.Load()
	return SiteConfig{
		Name:              EnvOr("SITE_NAME", "Portfolio"),
		URL:               EnvOr("SITE_URL", "http://localhost:3000"),
		Description:       os.Getenv("SITE_DESCRIPTION"),
		Author:            os.Getenv("SITE_AUTHOR"),
		Addr:              EnvOr("ADDR", ":3000"),
		DatabasePath:      EnvOr("DATABASE_PATH", "data/folio.db"),
		AdminEmail:        MustEnv("ADMIN_EMAIL"),
		AdminPasswordHash: MustEnv("ADMIN_PASSWORD_HASH"),
		SessionSecret:     MustEnv("SESSION_SECRET"),
		CookieSecure:      os.Getenv("COOKIE_SECURE") == "true",
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets and uploads
// (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// EnvOr returns the value of the environment variable key, or fallback
// if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or
// fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("folio: required environment variable %s is not set", key)
	}
	return v
}
