package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/scribe-app/scribe/config"
	"github.com/scribe-app/scribe/services/auth"
	"github.com/scribe-app/scribe/services/jwt"
	"github.com/scribe-app/scribe/services/logging"
	"github.com/scribe-app/scribe/services/oauth2flow"
	"go.uber.org/zap"
)

// RefreshTokenCookieName carries the persisted refresh token back to the
// browser after a completed login.
const RefreshTokenCookieName = "refresh_token"

type OAuthHandler struct {
	cfg       *config.Config
	flowSvc   *oauth2flow.Service
	stateRepo *oauth2flow.StateRepository
	authSvc   *auth.Service
	jwtSvc    *jwt.Service
	logger    *logging.Service
}

func NewOAuthHandler(cfg *config.Config, flowSvc *oauth2flow.Service, stateRepo *oauth2flow.StateRepository,
	authSvc *auth.Service, jwtSvc *jwt.Service, logger *logging.Service) *OAuthHandler {
	return &OAuthHandler{
		cfg:       cfg,
		flowSvc:   flowSvc,
		stateRepo: stateRepo,
		authSvc:   authSvc,
		jwtSvc:    jwtSvc,
		logger:    logger,
	}
}

// Login starts the external login: mint the anti-forgery state, persist it in
// the client-held cookie and redirect to the provider.
func (h *OAuthHandler) Login(c echo.Context) error {
	req := &oauth2flow.AuthRequest{
		State:       uuid.New().String(),
		Nonce:       uuid.New().String(),
		RedirectURI: h.cfg.OAuth2.RedirectURL,
	}

	if err := h.stateRepo.Save(c, req); err != nil {
		h.logger.Error("failed to save login flow state", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "could not start login")
	}

	return c.Redirect(http.StatusFound, h.flowSvc.AuthCodeURL(req.State))
}

// Callback finishes the external login. The flow cookie is the only copy of
// the pending request; a callback without it (or with a mismatched state)
// cannot be trusted and the client must restart the login.
func (h *OAuthHandler) Callback(c echo.Context) error {
	saved, err := h.stateRepo.Load(c)
	if err != nil {
		if errors.Is(err, oauth2flow.ErrStateAbsent) {
			return echo.NewHTTPError(http.StatusBadRequest, "login flow state missing")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "login flow state invalid")
	}

	if state := c.QueryParam("state"); state == "" || state != saved.State {
		h.logger.Warn("state mismatch on oauth2 callback")
		return echo.NewHTTPError(http.StatusBadRequest, "state mismatch")
	}

	ctx := c.Request().Context()

	token, err := h.flowSvc.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "code exchange failed")
	}

	identity, err := h.flowSvc.FetchIdentity(ctx, token)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "identity lookup failed")
	}

	result, err := h.authSvc.CompleteLogin(ctx, identity.Email, identity.Name)
	if err != nil {
		h.logger.Error("login completion failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	h.clearRefreshCookie(c)
	h.setRefreshCookie(c, result.RefreshToken)
	h.stateRepo.Remove(c)

	return c.Redirect(http.StatusFound, h.successURL(result.AccessToken))
}

func (h *OAuthHandler) setRefreshCookie(c echo.Context, refreshToken string) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshTokenCookieName,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.jwtSvc.RefreshExpiry().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *OAuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *OAuthHandler) successURL(accessToken string) string {
	return h.cfg.OAuth2.SuccessPath + "?" + url.Values{"token": {accessToken}}.Encode()
}
