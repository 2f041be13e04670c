package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	jwtmw "github.com/scribe-app/scribe/middleware/jwt"
	"github.com/scribe-app/scribe/services/article"
	"github.com/scribe-app/scribe/services/jwt"
	"github.com/scribe-app/scribe/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newArticleRouter wires the article routes through the real token middleware
// so the tests cover the authenticated path end to end.
func newArticleRouter(t *testing.T) (*echo.Echo, *jwt.Service, *article.Service) {
	t.Helper()

	cfg := testutils.GetTestConfig()
	db := testutils.SetupTestDB(t, &article.Article{})

	jwtSvc, err := jwt.NewService(cfg, nil)
	require.NoError(t, err)
	articleSvc := article.NewService(db)
	h := NewArticleHandler(articleSvc)

	e := echo.New()
	e.Use(jwtmw.Middleware(jwtSvc))
	g := e.Group("/api/articles", jwtmw.RequireAuth())
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	return e, jwtSvc, articleSvc
}

func articleRequest(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestArticleRoutes(t *testing.T) {
	e, jwtSvc, _ := newArticleRouter(t)

	token, err := jwtSvc.GenerateAccessToken("author@example.com", 7)
	require.NoError(t, err)

	t.Run("requests without a token are rejected", func(t *testing.T) {
		rec := articleRequest(t, e, http.MethodGet, "/api/articles", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = articleRequest(t, e, http.MethodPost, "/api/articles", "", `{"title":"x"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("create records the caller as author", func(t *testing.T) {
		rec := articleRequest(t, e, http.MethodPost, "/api/articles", token,
			`{"title":"First post","content":"hello"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var a article.Article
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
		assert.Equal(t, "First post", a.Title)
		assert.Equal(t, "author@example.com", a.Author)
		assert.NotZero(t, a.ID)
	})

	t.Run("list and get return the stored article", func(t *testing.T) {
		rec := articleRequest(t, e, http.MethodGet, "/api/articles", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list []article.Article
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.NotEmpty(t, list)

		rec = articleRequest(t, e, http.MethodGet, "/api/articles/1", token, "")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("update and delete round trip", func(t *testing.T) {
		rec := articleRequest(t, e, http.MethodPut, "/api/articles/1", token,
			`{"title":"Edited","content":"revised"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var a article.Article
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
		assert.Equal(t, "Edited", a.Title)

		rec = articleRequest(t, e, http.MethodDelete, "/api/articles/1", token, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = articleRequest(t, e, http.MethodGet, "/api/articles/1", token, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric id is rejected", func(t *testing.T) {
		rec := articleRequest(t, e, http.MethodGet, "/api/articles/abc", token, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		rec := articleRequest(t, e, http.MethodPost, "/api/articles", token,
			`{"title":"","content":"body only"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
