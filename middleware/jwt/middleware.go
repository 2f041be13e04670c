// Package jwt holds the per-request authentication filter. The filter only
// establishes identity; whether a missing identity is fatal is decided by
// route policy (RequireAuth), not here.
package jwt

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/scribe-app/scribe/services/jwt"
)

const principalKey = "_auth_principal"

type contextKey struct{}

// Middleware extracts a bearer token from the Authorization header and, when
// it validates, attaches the decoded principal to the request. Absent or
// invalid credentials leave the request unauthenticated and processing
// continues.
func Middleware(jwtSvc *jwt.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get("Authorization"))
			if token == "" {
				return next(c)
			}

			if !jwtSvc.Validate(token) {
				return next(c)
			}

			claims, err := jwtSvc.DecodeClaims(token)
			if err != nil {
				return next(c)
			}

			principal := claims.Principal()
			c.Set(principalKey, principal)

			// Mirror into the request context so code below the echo layer
			// can read the principal without an echo.Context in hand.
			req := c.Request()
			c.SetRequest(req.WithContext(WithPrincipal(req.Context(), principal)))

			return next(c)
		}
	}
}

// RequireAuth is the route policy for protected paths: reject with 401 unless
// the filter attached a principal.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetPrincipal(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

func GetPrincipal(c echo.Context) *jwt.Principal {
	if principal, ok := c.Get(principalKey).(*jwt.Principal); ok {
		return principal
	}
	return nil
}

func WithPrincipal(ctx context.Context, principal *jwt.Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, principal)
}

func PrincipalFromContext(ctx context.Context) *jwt.Principal {
	if principal, ok := ctx.Value(contextKey{}).(*jwt.Principal); ok {
		return principal
	}
	return nil
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}
