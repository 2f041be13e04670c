// Package jwt issues and validates the signed tokens every authenticated
// request rides on. A single HS256 key is derived from configuration at
// construction and shared read-only across all goroutines.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/scribe-app/scribe/config"
	"github.com/scribe-app/scribe/services/logging"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidTTL       = errors.New("token lifetime must be positive")
)

// Claims is the payload of both token kinds. The numeric "id" claim carries
// the user's database id; Subject carries the login email.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// RoleUser is the single authority granted to authenticated principals.
const RoleUser = "user"

// Principal is the narrow authenticated identity handed to request handlers.
// It is populated from claims only, never from the persisted user row.
type Principal struct {
	ID    int64
	Email string
	Roles []string
}

func (c *Claims) Principal() *Principal {
	return &Principal{
		ID:    c.UserID,
		Email: c.Subject,
		Roles: []string{RoleUser},
	}
}

type Service struct {
	issuer        string
	key           []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	logger        *logging.Service
}

func NewService(cfg *config.Config, logger *logging.Service) (*Service, error) {
	key, err := cfg.JWT.SigningKey()
	if err != nil {
		return nil, err
	}

	return &Service{
		issuer:        cfg.JWT.Issuer,
		key:           key,
		accessExpiry:  cfg.JWT.AccessExpiry,
		refreshExpiry: cfg.JWT.RefreshExpiry,
		logger:        logger,
	}, nil
}

// SigningKey exposes the derived key for components that need the same HMAC
// material (the flow-state cookie codec). Callers must not mutate it.
func (s *Service) SigningKey() []byte {
	return s.key
}

func (s *Service) AccessExpiry() time.Duration {
	return s.accessExpiry
}

func (s *Service) RefreshExpiry() time.Duration {
	return s.refreshExpiry
}

// Generate signs a token for the given subject with the provided lifetime.
// Pure computation: no I/O, no shared mutable state.
func (s *Service) Generate(email string, userID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

func (s *Service) GenerateAccessToken(email string, userID int64) (string, error) {
	return s.Generate(email, userID, s.accessExpiry)
}

func (s *Service) GenerateRefreshToken(email string, userID int64) (string, error) {
	return s.Generate(email, userID, s.refreshExpiry)
}

// Validate reports whether the token parses, carries a valid signature and has
// not expired. Every failure mode collapses to false; nothing propagates past
// this boundary.
func (s *Service) Validate(tokenString string) bool {
	_, err := s.parse(tokenString)
	if err != nil {
		s.logger.Debug("token validation failed", zap.Error(err))
		return false
	}
	return true
}

// DecodeClaims runs the same parse path as Validate and returns the claim set.
// Signature and expiry are always enforced; there is no relaxed decode.
func (s *Service) DecodeClaims(tokenString string) (*Claims, error) {
	return s.parse(tokenString)
}

// UserID extracts the numeric "id" claim after a full parse.
func (s *Service) UserID(tokenString string) (int64, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func (s *Service) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() == "none" {
			return nil, errors.New("'none' algorithm is not allowed")
		}

		if token.Method.Alg() != "HS256" {
			return nil, fmt.Errorf("unexpected algorithm: expected HS256, got %s", token.Method.Alg())
		}

		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid algorithm family: %v", token.Header["alg"])
		}

		return s.key, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
