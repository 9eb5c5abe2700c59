package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const minJWTKeyLength = 32

// Config holds the configuration for the application.
type Config struct {
	Environment string `env:"APP_ENV,default=development"`
	Port        string `env:"PORT,default=8080"`

	// DatabaseURL selects the storage driver by scheme: sqlite://path or postgres://...
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTKey      string `env:"JWT_KEY,required"`
	JWTIssuer   string `env:"JWT_ISSUER,required"`
	JWTAudience string `env:"JWT_AUDIENCE,required"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID,required"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET,required"`

	SpoonacularAPIKey  string        `env:"SPOONACULAR_API_KEY,required"`
	SpoonacularBaseURL string        `env:"SPOONACULAR_BASE_URL,default=https://api.spoonacular.com"`
	SpoonacularTimeout time.Duration `env:"SPOONACULAR_TIMEOUT,default=30s"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first when present.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if len(cfg.JWTKey) < minJWTKeyLength {
		return nil, fmt.Errorf("JWT_KEY must be at least %d bytes long", minJWTKeyLength)
	}
	if !strings.HasPrefix(cfg.DatabaseURL, "sqlite://") && !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		return nil, fmt.Errorf("DATABASE_URL must start with sqlite:// or postgres://")
	}

	return &cfg, nil
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// AllowedOrigins splits the comma separated CORS origin list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
