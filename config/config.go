package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Log      LogConfig      `envPrefix:"LOG_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	OAuth2   OAuth2Config   `envPrefix:"OAUTH2_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"Scribe"`
	URL  string `env:"URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"localhost"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"scribe.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type AuthConfig struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// JWTConfig carries the signing material for both token kinds. SecretKey is
// standard base64 (RFC 4648, padded); it is decoded exactly once at startup
// and never reinterpreted as raw bytes or base64url.
type JWTConfig struct {
	Issuer        string        `env:"ISSUER" envDefault:"scribe"`
	SecretKey     string        `env:"SECRET_KEY"`
	Algorithm     string        `env:"ALGORITHM" envDefault:"HS256"`
	AccessExpiry  time.Duration `env:"ACCESS_EXPIRY" envDefault:"24h"`
	RefreshExpiry time.Duration `env:"REFRESH_EXPIRY" envDefault:"336h"`
}

type OAuth2Config struct {
	ClientID     string        `env:"CLIENT_ID"`
	ClientSecret string        `env:"CLIENT_SECRET"`
	RedirectURL  string        `env:"REDIRECT_URL" envDefault:"http://localhost:8080/auth/callback"`
	SuccessPath  string        `env:"SUCCESS_PATH" envDefault:"/articles"`
	StateExpiry  time.Duration `env:"STATE_EXPIRY" envDefault:"5h"`
}

func LoadConfig(cfg *Config) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return err
	}

	return Validate(cfg)
}

func Validate(cfg *Config) error {
	return validateJWTConfig(&cfg.JWT)
}

var weakSecretPatterns = []string{"password", "secret", "test", "example", "default", "change"}

func validateJWTConfig(cfg *JWTConfig) error {
	if cfg.Algorithm != "HS256" {
		return fmt.Errorf("unsupported JWT algorithm: %s (only HS256 is supported)", cfg.Algorithm)
	}

	if len(cfg.SecretKey) < 32 {
		return errors.New("JWT secret key must be at least 32 characters long")
	}

	lowered := strings.ToLower(cfg.SecretKey)
	for _, pattern := range weakSecretPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("JWT secret key contains weak patterns (%q)", pattern)
		}
	}

	key, err := base64.StdEncoding.DecodeString(cfg.SecretKey)
	if err != nil {
		return fmt.Errorf("JWT secret key must be standard base64: %w", err)
	}
	if len(key) < 32 {
		return errors.New("JWT secret key must decode to at least 32 bytes")
	}

	return nil
}

// SigningKey returns the decoded HMAC key. Validate must have accepted the
// config first; the returned slice is treated as immutable by all callers.
func (c *JWTConfig) SigningKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("JWT secret key must be standard base64: %w", err)
	}
	return key, nil
}
