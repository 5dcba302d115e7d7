package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	Env              string `env:"ENV" env-default:"prod"`
	TelegramToken    string `env:"TELEGRAM_TOKEN" env-required:"true"`
	DatabaseURL      string `env:"DATABASE_URL" env-default:"assignments.db"`
	OwnerID          int64  `env:"OWNER_ID" env-default:"0"`
	DigestTime       string `env:"DIGEST_TIME" env-default:"07:30"`
	DigestWindowDays int    `env:"DIGEST_WINDOW_DAYS" env-default:"2"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read env: %w", err)
	}
	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)
	cfg.DigestTime = strings.TrimSpace(cfg.DigestTime)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}
	if c.DigestWindowDays < 0 {
		return fmt.Errorf("DIGEST_WINDOW_DAYS must not be negative")
	}
	return nil
}

// Usage describes the supported variables.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
