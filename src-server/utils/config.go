package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	port        string
	databaseURI string

	production         bool
	staticWebClientDir string

	metricCollectionInterval time.Duration
}

func NewConfig() *Config {
	production := strings.EqualFold(os.Getenv("APP_ENV"), "production")

	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "5000"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),
		databaseURI: func() string {
			uri := os.Getenv("DATABASE_URI")
			if uri == "" {
				uri = "file:./calendar.db?mode=rwc"
			}
			slog.Debug("env", "DATABASE_URI", uri)
			return uri
		}(),

		production: production,
		staticWebClientDir: func() string {
			dir := os.Getenv("STATIC_WEB_CLIENT_DIR")
			if dir == "" {
				dir = "./dist"
			}
			if !production {
				return filepath.Clean(dir)
			}
			info, err := os.Stat(dir)
			if err != nil {
				slog.Error("can't get info of STATIC_WEB_CLIENT_DIR", "error", err)
				os.Exit(1)
			}
			if !info.IsDir() {
				slog.Error("STATIC_WEB_CLIENT_DIR is not a directory", "dir", dir)
				os.Exit(1)
			}
			slog.Debug("env", "STATIC_WEB_CLIENT_DIR", dir)
			return filepath.Clean(dir)
		}(),

		metricCollectionInterval: func() time.Duration {
			raw := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if raw == "" {
				raw = "15s"
			}
			interval, err := time.ParseDuration(raw)
			if err != nil || interval <= 0 {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "value", raw, "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", interval)
			return interval
		}(),
	}
}

// ParseLogLevel maps the LOG_LEVEL env onto slog levels; anything unknown is debug.
func ParseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// Get PORT env, default to 5000
func (c *Config) GetPort() string {
	return c.port
}

// Get DATABASE_URI env
func (c *Config) GetDatabaseURI() string {
	return c.databaseURI
}

// APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.production
}

// Get STATIC_WEB_CLIENT_DIR env
func (c *Config) GetStaticWebClientDir() string {
	return c.staticWebClientDir
}

// Get METRIC_COLLECTION_INTERVAL env
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
