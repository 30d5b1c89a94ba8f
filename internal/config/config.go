package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"dev"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`
	LogJSON     bool   `env:"LOG_JSON" envDefault:"false"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"trademind.db"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	Auth struct {
		JWTSecret       string        `env:"JWT_SECRET" envDefault:"change-me-jwt-secret"`
		AccessTTL       time.Duration `env:"JWT_ACCESS_TTL" envDefault:"24h"`
		RequireConfirm  bool          `env:"AUTH_REQUIRE_EMAIL_CONFIRMATION" envDefault:"false"`
		AdminHeuristic  bool          `env:"ADMIN_EMAIL_HEURISTIC" envDefault:"true"`
		AdminEmails     []string      `env:"ADMIN_EMAILS" envSeparator:","`
		BcryptCost      int           `env:"BCRYPT_COST" envDefault:"10"`
		SessionStoreTTL time.Duration `env:"SESSION_STORE_TTL" envDefault:"0s"`
	}

	Redis struct {
		Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	RabbitMQ struct {
		URL   string `env:"RABBITMQ_URL"`
		Queue string `env:"RABBITMQ_REVIEW_QUEUE" envDefault:"profile.reviewed"`
	}

	Uploads struct {
		Dir      string `env:"UPLOADS_DIR" envDefault:"./uploads"`
		MaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
	}

	Session struct {
		MaxAttempts int           `env:"PROFILE_FETCH_ATTEMPTS" envDefault:"3"`
		RetryDelay  time.Duration `env:"PROFILE_FETCH_DELAY" envDefault:"500ms"`
	}
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	// .env is optional; in production variables come from the environment.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	if cfg.Auth.SessionStoreTTL <= 0 {
		cfg.Auth.SessionStoreTTL = cfg.Auth.AccessTTL
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.Auth.AccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if cfg.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be > 0")
	}
	if cfg.Session.MaxAttempts <= 0 {
		return fmt.Errorf("PROFILE_FETCH_ATTEMPTS must be > 0")
	}
	if cfg.Session.RetryDelay < 0 {
		return fmt.Errorf("PROFILE_FETCH_DELAY must be >= 0")
	}

	if cfg.IsProdLike() {
		if isEmptyOrDefault(cfg.Auth.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.Auth.AdminHeuristic {
			return fmt.Errorf("in prod/release ADMIN_EMAIL_HEURISTIC must be false; use ADMIN_EMAILS")
		}
	}
	return nil
}

func (c *Config) IsProdLike() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
