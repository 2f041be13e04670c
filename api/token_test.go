package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/scribe-app/scribe/services/auth"
	"github.com/scribe-app/scribe/services/jwt"
	"github.com/scribe-app/scribe/services/refreshtoken"
	"github.com/scribe-app/scribe/services/user"
	"github.com/scribe-app/scribe/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type tokenEnv struct {
	handler    *TokenHandler
	authSvc    *auth.Service
	jwtSvc     *jwt.Service
	refreshSvc *refreshtoken.Service
	db         *gorm.DB
}

func newTokenEnv(t *testing.T) *tokenEnv {
	t.Helper()

	cfg := testutils.GetTestConfig()
	db := testutils.SetupTestDB(t, &user.User{}, &refreshtoken.RefreshToken{})

	jwtSvc, err := jwt.NewService(cfg, nil)
	require.NoError(t, err)
	refreshSvc := refreshtoken.NewService(db, nil)
	userSvc := user.NewService(db, cfg, nil)
	authSvc := auth.NewService(jwtSvc, refreshSvc, userSvc, nil)

	return &tokenEnv{
		handler:    NewTokenHandler(authSvc),
		authSvc:    authSvc,
		jwtSvc:     jwtSvc,
		refreshSvc: refreshSvc,
		db:         db,
	}
}

func postToken(t *testing.T, env *tokenEnv, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return rec, env.handler.CreateAccessToken(c)
}

func TestTokenHandler_CreateAccessToken(t *testing.T) {
	t.Run("valid refresh token returns 201 with access token", func(t *testing.T) {
		env := newTokenEnv(t)
		result, err := env.authSvc.CompleteLogin(context.Background(), "ok@example.com", "OK")
		require.NoError(t, err)

		rec, err := postToken(t, env, `{"refreshToken":"`+result.RefreshToken+`"}`)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp CreateAccessTokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, env.jwtSvc.Validate(resp.AccessToken))
	})

	t.Run("decoded user id with no stored row is a client error", func(t *testing.T) {
		env := newTokenEnv(t)

		// Well-signed, unexpired, but no refresh_tokens row backs it.
		orphan, err := env.jwtSvc.Generate("ghost@example.com", 31337, time.Hour)
		require.NoError(t, err)

		_, err = postToken(t, env, `{"refreshToken":"`+orphan+`"}`)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("missing body field", func(t *testing.T) {
		env := newTokenEnv(t)

		_, err := postToken(t, env, `{}`)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		env := newTokenEnv(t)

		_, err := postToken(t, env, `{not json`)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}
