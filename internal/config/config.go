package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr            string
	DBDriver              string
	DBPath                string
	DatabaseURL           string
	JWTSecret             string
	PhotoBackend          string
	PhotoPath             string
	PhotoBaseURL          string
	GDriveCredentialsFile string
	GDriveFolderID        string
	VisionBackend         string
	OllamaHost            string
	OllamaModel           string
	ClaudeAPIKey          string
	ClaudeModel           string
	ReportBrand           string
	ReportTimezone        string
	LogLevel              string
	LogFormat             string
	LogFile               string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; variables already set in
// the environment win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		ListenAddr:            getEnv("LISTEN_ADDR", ":8080"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite"),
		DBPath:                getEnv("DB_PATH", "/data/vistoria.db"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		PhotoBackend:          getEnv("PHOTO_BACKEND", "local"),
		PhotoPath:             getEnv("PHOTO_LOCAL_PATH", "/data/photos"),
		PhotoBaseURL:          getEnv("PHOTO_BASE_URL", "/photos"),
		GDriveCredentialsFile: getEnv("GDRIVE_CREDENTIALS_FILE", ""),
		GDriveFolderID:        getEnv("GDRIVE_FOLDER_ID", ""),
		VisionBackend:         getEnv("VISION_BACKEND", "none"),
		OllamaHost:            getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:           getEnv("OLLAMA_MODEL", "llava"),
		ClaudeAPIKey:          getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:           getEnv("CLAUDE_MODEL", "claude-sonnet-4-5"),
		ReportBrand:           getEnv("REPORT_BRAND", "GEO APP"),
		ReportTimezone:        getEnv("REPORT_TIMEZONE", "America/Sao_Paulo"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "json"),
		LogFile:               getEnv("LOG_FILE", ""),
	}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	switch c.PhotoBackend {
	case "local":
	case "gdrive":
		if c.GDriveCredentialsFile == "" || c.GDriveFolderID == "" {
			return fmt.Errorf("GDRIVE_CREDENTIALS_FILE and GDRIVE_FOLDER_ID are required when PHOTO_BACKEND=gdrive")
		}
	default:
		return fmt.Errorf("unknown PHOTO_BACKEND %q", c.PhotoBackend)
	}
	switch c.VisionBackend {
	case "none", "ollama":
	case "claude":
		if c.ClaudeAPIKey == "" {
			return fmt.Errorf("CLAUDE_API_KEY is required when VISION_BACKEND=claude")
		}
	default:
		return fmt.Errorf("unknown VISION_BACKEND %q", c.VisionBackend)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the time zone report dates are printed in. An empty
// REPORT_TIMEZONE means UTC.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", c.ReportTimezone, err)
	}
	return loc, nil
}

// DSN is the data source handed to db.Open for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
