package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Port    string `envconfig:"PORT" default:"8080"`
	GinMode string `envconfig:"GIN_MODE" default:"debug"`

	// DatabaseURL is a Postgres DSN. When empty the server falls back to
	// a local SQLite file, which is what dev and CI use.
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"volunteerhub.db"`

	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	AccessTokenMin int    `envconfig:"ACCESS_TOKEN_MIN" default:"30"`
	RefreshTokenHr int    `envconfig:"REFRESH_TOKEN_HR" default:"168"`
	GoogleClientID string `envconfig:"GOOGLE_CLIENT_ID" default:""`

	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY" default:""`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET" default:""`
}

// Load reads configuration from a .env file (when present) and the
// process environment. Real environment variables win over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
