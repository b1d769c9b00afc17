package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"lingopath-backend/internal/auth"
	"lingopath-backend/internal/models"
	"lingopath-backend/internal/progress"
)

// getProgressHandler handles GET /api/progress
func (h *Handlers) getProgressHandler(c echo.Context) error {
	userID := auth.GetUserIDFromContext(c)

	xp, level := h.Ledger.GetXP(userID)

	languages, err := h.Languages.GetAll(userID)
	if err != nil {
		c.Logger().Error("get language progress error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to get progress",
		})
	}

	achievements, err := h.Achievements.List(userID)
	if err != nil {
		c.Logger().Error("get achievements error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to get progress",
		})
	}
	if achievements == nil {
		achievements = []string{}
	}

	return c.JSON(http.StatusOK, models.ProgressResponse{
		XP:               xp,
		Level:            level,
		LanguageProgress: languages,
		Achievements:     achievements,
	})
}

// addXPHandler handles POST /api/progress/xp
func (h *Handlers) addXPHandler(c echo.Context) error {
	userID := auth.GetUserIDFromContext(c)

	var req models.AddXPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	result, err := h.Ledger.AddXP(userID, req.Amount)
	if err != nil {
		if errors.Is(err, progress.ErrNonPositiveAmount) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid xp amount",
			})
		}
		c.Logger().Error("add xp error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to add xp",
		})
	}

	return c.JSON(http.StatusOK, result)
}

// updateLanguageHandler handles POST /api/progress/language
func (h *Handlers) updateLanguageHandler(c echo.Context) error {
	userID := auth.GetUserIDFromContext(c)

	var req models.UpdateLanguageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if req.Language == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "language is required",
		})
	}

	if err := h.Languages.Upsert(userID, req.Language, req.Progress); err != nil {
		c.Logger().Error("update language progress error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to update progress",
		})
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// getStreakHandler handles GET /api/progress/streak; a pure read that
// reports 0 once the streak has lapsed, without touching stored state
func (h *Handlers) getStreakHandler(c echo.Context) error {
	userID := auth.GetUserIDFromContext(c)
	return c.JSON(http.StatusOK, map[string]int{
		"streak": h.Streaks.GetStreak(userID),
	})
}

// registerStreakHandler handles POST /api/progress/streak
func (h *Handlers) registerStreakHandler(c echo.Context) error {
	userID := auth.GetUserIDFromContext(c)
	return c.JSON(http.StatusOK, map[string]int{
		"streak": h.Streaks.RegisterEngagement(userID),
	})
}
