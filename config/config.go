package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is loaded from the environment. The signing secret and the
// database URL have no sane defaults and are required.
type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	DBURL string `env:"DB_URL,required,notEmpty"`

	SecretKey        string `env:"SECRET_KEY,required,notEmpty"`
	Algorithm        string `env:"ALGORITHM" envDefault:"HS256"`
	AccessExpiryMin  int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"15"`
	UsernameLength   int    `env:"USERNAME_LENGTH" envDefault:"8"`
	UsernameAttempts int    `env:"USERNAME_MAX_ATTEMPTS" envDefault:"10"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
