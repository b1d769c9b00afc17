package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"lingopath-backend/internal/auth"
	"lingopath-backend/internal/models"
)

// registerHandler handles POST /api/auth/register
func (h *Handlers) registerHandler(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	resp, err := h.Auth.Register(strings.TrimSpace(req.Email), req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmptyCredentials):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "email and password are required",
			})
		case errors.Is(err, auth.ErrEmailTaken):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "user already exists",
			})
		default:
			c.Logger().Error("registration error: ", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "registration failed",
			})
		}
	}

	// Seed progression state so the first practice session behaves like a
	// returning user's: xp 0/level 1, and a streak that reaches 1 on the
	// first engagement.
	h.Ledger.Init(resp.User.ID)
	h.Streaks.Init(resp.User.ID)

	return c.JSON(http.StatusCreated, resp)
}

// loginHandler handles POST /api/auth/login
func (h *Handlers) loginHandler(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	resp, err := h.Auth.Login(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmptyCredentials):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "email and password are required",
			})
		case errors.Is(err, auth.ErrUnknownEmail):
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "no account found with this email address",
			})
		case errors.Is(err, auth.ErrWrongPassword):
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "incorrect password, please try again",
			})
		default:
			c.Logger().Error("login error: ", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "login failed",
			})
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// logoutHandler handles POST /api/auth/logout
func (h *Handlers) logoutHandler(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		h.Auth.Logout(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// currentUserHandler handles GET /api/auth/me
func (h *Handlers) currentUserHandler(c echo.Context) error {
	user := auth.GetUserFromContext(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "unauthorized",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}
