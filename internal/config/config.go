// Package config loads groupsync settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"github.com/mmynk/groupsync/pkg/logging"
)

// minSecretLength is the shortest accepted ADMIN_JWT_SECRET.
const minSecretLength = 32

// Config holds every setting of the server.
type Config struct {
	DBPath     string `env:"DB_PATH,default=./data/groupsync.db"`
	ListenAddr string `env:"LISTEN_ADDR,default=:8080"`
	LogLevel   string `env:"LOG_LEVEL,default=info"`

	HomeserverURL  string        `env:"MATRIX_HOMESERVER_URL,required=true"`
	AccessToken    string        `env:"MATRIX_ACCESS_TOKEN,required=true"`
	Domain         string        `env:"MATRIX_DOMAIN"`
	RequestTimeout time.Duration `env:"MATRIX_REQUEST_TIMEOUT,default=30s"`

	// JWTSecret enables operator authentication when set.
	JWTSecret            string        `env:"ADMIN_JWT_SECRET"`
	TokenTTL             time.Duration `env:"ADMIN_TOKEN_TTL,default=24h"`
	OperatorName         string        `env:"OPERATOR_NAME,default=admin"`
	OperatorPasswordHash string        `env:"OPERATOR_PASSWORD_HASH"`
}

// Load reads envFile into the process environment, then decodes and
// validates the configuration. An empty envFile means ".env" if present.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	environ, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return Parse(environ)
}

// Parse decodes and validates the configuration from an environment set.
func Parse(environ env.EnvSet) (*Config, error) {
	var cfg Config
	if err := env.Unmarshal(environ, &cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values and the rules that span fields.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if u, err := url.Parse(c.HomeserverURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("MATRIX_HOMESERVER_URL %q must be an http or https URL", c.HomeserverURL))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("MATRIX_REQUEST_TIMEOUT must be positive"))
	}
	if c.AuthEnabled() {
		if len(c.JWTSecret) < minSecretLength {
			errs = append(errs, fmt.Errorf("ADMIN_JWT_SECRET must be at least %d characters", minSecretLength))
		}
		if c.OperatorPasswordHash == "" {
			errs = append(errs, fmt.Errorf("OPERATOR_PASSWORD_HASH is required when ADMIN_JWT_SECRET is set"))
		}
		if c.OperatorName == "" {
			errs = append(errs, fmt.Errorf("OPERATOR_NAME is required when ADMIN_JWT_SECRET is set"))
		}
		if c.TokenTTL <= 0 {
			errs = append(errs, fmt.Errorf("ADMIN_TOKEN_TTL must be positive"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// AuthEnabled reports whether the admin API requires a token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}
