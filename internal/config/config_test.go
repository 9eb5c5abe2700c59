package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

const testJWTKey = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "sqlite://data/test.db")
	t.Setenv("JWT_KEY", testJWTKey)
	t.Setenv("JWT_ISSUER", "mealplanner")
	t.Setenv("JWT_AUDIENCE", "mealplanner-web")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("SPOONACULAR_API_KEY", "spoon-key")
}

func TestNewFromEnv(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		setRequired(t)
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabaseURL != "sqlite://data/test.db" {
			t.Errorf("Expected DatabaseURL 'sqlite://data/test.db', got '%s'", cfg.DatabaseURL)
		}
		if cfg.SpoonacularAPIKey != "spoon-key" {
			t.Errorf("Expected SpoonacularAPIKey 'spoon-key', got '%s'", cfg.SpoonacularAPIKey)
		}
		if cfg.SpoonacularTimeout != 30*time.Second {
			t.Errorf("Expected default timeout of 30s, got %v", cfg.SpoonacularTimeout)
		}
		if cfg.Port != "8080" {
			t.Errorf("Expected default port 8080, got '%s'", cfg.Port)
		}
		if got := cfg.AllowedOrigins(); len(got) != 2 || got[1] != "http://b.test" {
			t.Errorf("Unexpected allowed origins: %v", got)
		}
		if cfg.IsProduction() {
			t.Error("Expected development environment by default")
		}
	})

	required := []string{
		"DATABASE_URL",
		"JWT_KEY",
		"JWT_ISSUER",
		"JWT_AUDIENCE",
		"GOOGLE_CLIENT_ID",
		"GOOGLE_CLIENT_SECRET",
		"SPOONACULAR_API_KEY",
	}
	for _, name := range required {
		t.Run("Missing"+name, func(t *testing.T) {
			setRequired(t)
			os.Unsetenv(name)

			_, err := NewFromEnv()
			if err == nil {
				t.Fatalf("Expected an error for missing %s, got nil", name)
			}
			if !strings.Contains(err.Error(), name) {
				t.Errorf("Expected error to mention %s, got '%s'", name, err.Error())
			}
		})
	}

	t.Run("ShortJWTKey", func(t *testing.T) {
		setRequired(t)
		t.Setenv("JWT_KEY", "short")

		_, err := NewFromEnv()
		if err == nil || !strings.Contains(err.Error(), "JWT_KEY") {
			t.Fatalf("Expected JWT_KEY length error, got %v", err)
		}
	})

	t.Run("UnsupportedDatabaseScheme", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DATABASE_URL", "mysql://localhost/db")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for an unsupported DATABASE_URL scheme")
		}
	})
}
