package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lingopath-backend/internal/auth"
	"lingopath-backend/internal/progress"
)

// aiUnavailable is returned when no generation endpoint is configured
func aiUnavailable(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, map[string]string{
		"error": "ai generation is not configured",
	})
}

type generateExercisesRequest struct {
	Language   string `json:"language"`
	Type       string `json:"type"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

// generateExercisesHandler handles POST /api/ai/exercises/generate
func (h *Handlers) generateExercisesHandler(c echo.Context) error {
	if h.AI == nil {
		return aiUnavailable(c)
	}

	var req generateExercisesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if req.Language == "" || req.Type == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "language and type are required",
		})
	}
	if req.Difficulty == "" {
		req.Difficulty = "beginner"
	}
	if req.Count <= 0 {
		req.Count = 5
	}

	exercises, err := h.AI.GenerateExercises(c.Request().Context(), req.Language, req.Type, req.Difficulty, req.Count)
	if err != nil {
		c.Logger().Error("exercise generation error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to generate exercises",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"exercises": exercises})
}

type submitExerciseRequest struct {
	ExerciseID string `json:"exercise_id"`
	Correct    bool   `json:"correct"`
}

// submitExerciseHandler handles POST /api/ai/exercises/submit. A correct
// answer awards the fixed XP amount and counts as today's engagement.
func (h *Handlers) submitExerciseHandler(c echo.Context) error {
	userID := auth.GetUserIDFromContext(c)

	var req submitExerciseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	streak := h.Streaks.RegisterEngagement(userID)

	if !req.Correct {
		xp, level := h.Ledger.GetXP(userID)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"xp":         xp,
			"level":      level,
			"leveled_up": false,
			"streak":     streak,
		})
	}

	result, err := h.Ledger.AddXP(userID, progress.XPPerCorrectAnswer)
	if err != nil {
		c.Logger().Error("submit exercise error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to record answer",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"xp":         result.XP,
		"level":      result.Level,
		"leveled_up": result.LeveledUp,
		"streak":     streak,
	})
}

type generateLessonRequest struct {
	Language string `json:"language"`
	Topic    string `json:"topic"`
	Level    string `json:"level"`
}

// generateLessonHandler handles POST /api/ai/lessons/generate
func (h *Handlers) generateLessonHandler(c echo.Context) error {
	if h.AI == nil {
		return aiUnavailable(c)
	}

	var req generateLessonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if req.Language == "" || req.Topic == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "language and topic are required",
		})
	}
	if req.Level == "" {
		req.Level = "beginner"
	}

	lesson, err := h.AI.GenerateLesson(c.Request().Context(), req.Language, req.Topic, req.Level)
	if err != nil {
		c.Logger().Error("lesson generation error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to generate lesson",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"lesson": lesson})
}

type analyzeJournalRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
}

// analyzeJournalHandler handles POST /api/ai/journal/analyze
func (h *Handlers) analyzeJournalHandler(c echo.Context) error {
	if h.AI == nil {
		return aiUnavailable(c)
	}

	var req analyzeJournalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "text is required",
		})
	}

	analysis, err := h.AI.AnalyzeJournal(c.Request().Context(), req.Text, req.TargetLanguage)
	if err != nil {
		c.Logger().Error("journal analysis error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "analysis failed",
		})
	}

	return c.JSON(http.StatusOK, analysis)
}

type generatePromptsRequest struct {
	Language string `json:"language"`
	Level    string `json:"level"`
}

// generatePromptsHandler handles POST /api/ai/journal/prompts
func (h *Handlers) generatePromptsHandler(c echo.Context) error {
	if h.AI == nil {
		return aiUnavailable(c)
	}

	var req generatePromptsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	prompts, err := h.AI.GeneratePrompts(c.Request().Context(), req.Language, req.Level)
	if err != nil {
		c.Logger().Error("prompt generation error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "prompt generation failed",
		})
	}

	return c.JSON(http.StatusOK, map[string][]string{"prompts": prompts})
}
