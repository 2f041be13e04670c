package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/scribe-app/scribe/services/user"
)

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type UserHandler struct {
	userSvc *user.Service
}

func NewUserHandler(userSvc *user.Service) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (h *UserHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u, err := h.userSvc.Create(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		case errors.Is(err, user.ErrEmptyEmail), errors.Is(err, user.ErrEmptyPassword):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "signup failed")
		}
	}

	return c.JSON(http.StatusCreated, SignUpResponse{ID: u.ID, Email: u.Email})
}
