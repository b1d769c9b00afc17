package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"lingopath-backend/internal/models"
)

// Context keys for storing user data
const (
	ContextKeyUser   = "user"
	ContextKeyUserID = "user_id"
)

// RequireAuth middleware checks for a valid session token. Every failure
// mode maps to the same 401 body.
func RequireAuth(authSvc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getTokenFromRequest(c)

			user, err := authSvc.Authenticate(token)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					c.Logger().Warnf("session for missing user refused")
				}
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "unauthorized",
				})
			}

			c.Set(ContextKeyUser, user)
			c.Set(ContextKeyUserID, user.ID)

			return next(c)
		}
	}
}

// RequireAdmin middleware checks for admin role. Must be used after
// RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetUserFromContext(c)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "unauthorized",
				})
			}
			if !user.IsAdmin() {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "insufficient permissions",
				})
			}
			return next(c)
		}
	}
}

// getTokenFromRequest extracts the session token from the request
func getTokenFromRequest(c echo.Context) string {
	// Authorization header first (Bearer token)
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}

	// Fall back to cookie
	cookie, err := c.Cookie("session_token")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetUserIDFromContext retrieves the authenticated user ID, or 0
func GetUserIDFromContext(c echo.Context) int64 {
	id, ok := c.Get(ContextKeyUserID).(int64)
	if !ok {
		return 0
	}
	return id
}
