package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	jwtmw "github.com/scribe-app/scribe/middleware/jwt"
	"github.com/scribe-app/scribe/services/article"
)

type ArticleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ArticleHandler struct {
	articleSvc *article.Service
}

func NewArticleHandler(articleSvc *article.Service) *ArticleHandler {
	return &ArticleHandler{articleSvc: articleSvc}
}

func (h *ArticleHandler) List(c echo.Context) error {
	articles, err := h.articleSvc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list articles")
	}
	return c.JSON(http.StatusOK, articles)
}

func (h *ArticleHandler) Get(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}

	a, err := h.articleSvc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, article.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "article not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load article")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *ArticleHandler) Create(c echo.Context) error {
	principal := jwtmw.GetPrincipal(c)

	var req ArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	a, err := h.articleSvc.Create(c.Request().Context(), req.Title, req.Content, principal.Email)
	if err != nil {
		if errors.Is(err, article.ErrEmptyTitle) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create article")
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *ArticleHandler) Update(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}

	var req ArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	a, err := h.articleSvc.Update(c.Request().Context(), id, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, article.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "article not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update article")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *ArticleHandler) Delete(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}

	if err := h.articleSvc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, article.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "article not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete article")
	}
	return c.NoContent(http.StatusNoContent)
}

func articleID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid article id")
	}
	return id, nil
}
