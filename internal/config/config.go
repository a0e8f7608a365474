package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const appDir = "webmail-cli"

// Config application configuration
type Config struct {
	// Backend
	BaseURL     string        `env:"WEBMAIL_BASE_URL" envDefault:"http://127.0.0.1:8000"`
	SessionID   string        `env:"WEBMAIL_SESSION_ID"`
	CSRFToken   string        `env:"WEBMAIL_CSRF_TOKEN"`
	HTTPTimeout time.Duration `env:"WEBMAIL_HTTP_TIMEOUT" envDefault:"0s"` // 0 means no timeout

	// Local drafts, defaults to <config dir>/webmail-cli/drafts.db
	DBPath string `env:"WEBMAIL_DB_PATH"`

	// Compose
	Editor string `env:"EDITOR" envDefault:"nano"`

	// Logging, file defaults to <config dir>/webmail-cli/webmail.log
	LogFile   string `env:"WEBMAIL_LOG_FILE"`
	LogLevel  string `env:"WEBMAIL_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"WEBMAIL_LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// Load loads configuration from environment variables, after reading
// envFile (or ./.env when envFile is empty) if it exists.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DBPath == "" || cfg.LogFile == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(dir, "drafts.db")
		}
		if cfg.LogFile == "" {
			cfg.LogFile = filepath.Join(dir, "webmail.log")
		}
	}

	return cfg, nil
}

// Dir returns the per-user directory holding the draft database and log.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config dir: %w", err)
	}
	return filepath.Join(configDir, appDir), nil
}
