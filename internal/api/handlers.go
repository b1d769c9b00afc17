package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// healthCheck handles GET /api/health
func (h *Handlers) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// adminStatsHandler handles GET /api/admin/stats
func (h *Handlers) adminStatsHandler(c echo.Context) error {
	userCount, err := h.Users.Count()
	if err != nil {
		c.Logger().Error("admin stats error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to collect stats",
		})
	}

	return c.JSON(http.StatusOK, map[string]int{
		"users":    userCount,
		"sessions": h.Auth.Sessions().Count(),
	})
}
