package testutils

import (
	"time"

	"github.com/scribe-app/scribe/config"
)

// TestSecretKey is 48 random bytes in standard base64, valid under config
// validation rules.
const TestSecretKey = "BLHW/t18XGAmF8Oeye65yDtu6FFxD3xRLQOCE/1QeVE3M5z7tummoNnbXZQXpN3Q"

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "Scribe Test",
			URL:  "http://localhost:8080",
		},
		Server: config.ServerConfig{
			Host: "localhost",
			Port: "8080",
		},
		Log: config.LogConfig{
			Level:  "error",
			Format: "json",
			Output: "stdout",
		},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSN:         ":memory:",
			AutoMigrate: true,
		},
		Auth: config.AuthConfig{
			BcryptCost: 4,
		},
		JWT: config.JWTConfig{
			Issuer:        "scribe-test",
			SecretKey:     TestSecretKey,
			Algorithm:     "HS256",
			AccessExpiry:  24 * time.Hour,
			RefreshExpiry: 14 * 24 * time.Hour,
		},
		OAuth2: config.OAuth2Config{
			ClientID:     "test-client",
			ClientSecret: "test-client-sk",
			RedirectURL:  "http://localhost:8080/auth/callback",
			SuccessPath:  "/articles",
			StateExpiry:  5 * time.Hour,
		},
	}
}
