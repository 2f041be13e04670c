// Package api exposes the HTTP surface: token exchange, external login,
// signup and the protected article endpoints.
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/scribe-app/scribe/services/auth"
)

type CreateAccessTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type CreateAccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type TokenHandler struct {
	authSvc *auth.Service
}

func NewTokenHandler(authSvc *auth.Service) *TokenHandler {
	return &TokenHandler{authSvc: authSvc}
}

// CreateAccessToken exchanges a refresh token for a new access token.
// Success is 201 with the token; every failure is a client error with no
// token issued.
func (h *TokenHandler) CreateAccessToken(c echo.Context) error {
	var req CreateAccessTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refreshToken is required")
	}

	accessToken, err := h.authSvc.CreateNewAccessToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) || errors.Is(err, auth.ErrUnknownUser) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "token exchange failed")
	}

	return c.JSON(http.StatusCreated, CreateAccessTokenResponse{AccessToken: accessToken})
}
