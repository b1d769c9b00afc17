package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"lingopath-backend/internal/ai"
	"lingopath-backend/internal/auth"
	"lingopath-backend/internal/database"
	"lingopath-backend/internal/progress"
)

// Per-endpoint throttling thresholds. The generation endpoints get their
// own limiter instances so a burst against one cannot starve another.
const (
	loginMaxAttempts = 5
	loginWindow      = 15 * time.Minute

	promptsPerMinute   = 5
	lessonsPerMinute   = 10
	journalPerMinute   = 10
	exercisesPerMinute = 15

	limiterSweepInterval = 5 * time.Minute
)

// Limiters bundles the per-endpoint rate limiters
type Limiters struct {
	Login     *auth.RateLimiter
	Prompts   *auth.RateLimiter
	Lessons   *auth.RateLimiter
	Journal   *auth.RateLimiter
	Exercises *auth.RateLimiter
}

// NewLimiters creates the per-endpoint limiters and starts their sweepers
func NewLimiters() *Limiters {
	l := &Limiters{
		Login:     auth.NewRateLimiter(loginMaxAttempts, loginWindow),
		Prompts:   auth.NewRateLimiter(promptsPerMinute, time.Minute),
		Lessons:   auth.NewRateLimiter(lessonsPerMinute, time.Minute),
		Journal:   auth.NewRateLimiter(journalPerMinute, time.Minute),
		Exercises: auth.NewRateLimiter(exercisesPerMinute, time.Minute),
	}
	for _, rl := range l.all() {
		rl.StartSweeper(limiterSweepInterval)
	}
	return l
}

// Stop terminates every limiter's sweeper
func (l *Limiters) Stop() {
	for _, rl := range l.all() {
		rl.Stop()
	}
}

func (l *Limiters) all() []*auth.RateLimiter {
	return []*auth.RateLimiter{l.Login, l.Prompts, l.Lessons, l.Journal, l.Exercises}
}

// Handlers carries the services the HTTP layer composes. Constructed
// explicitly so tests can wire isolated instances.
type Handlers struct {
	Auth         *auth.Service
	Users        *database.UserRepo
	Ledger       *progress.Ledger
	Streaks      *progress.StreakTracker
	Languages    *database.LanguageRepo
	Achievements *database.AchievementRepo
	AI           *ai.Client
	Limiters     *Limiters
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(g *echo.Group, h *Handlers) {
	g.GET("/health", h.healthCheck)

	// Auth routes (public)
	authGroup := g.Group("/auth")
	authGroup.POST("/register", h.registerHandler)
	authGroup.POST("/login", h.loginHandler, h.Limiters.Login.Middleware())
	authGroup.POST("/logout", h.logoutHandler)
	authGroup.GET("/me", h.currentUserHandler, auth.RequireAuth(h.Auth))

	// Progress routes (authenticated)
	prog := g.Group("/progress")
	prog.Use(auth.RequireAuth(h.Auth))
	prog.GET("", h.getProgressHandler)
	prog.POST("/xp", h.addXPHandler)
	prog.POST("/language", h.updateLanguageHandler)
	prog.GET("/streak", h.getStreakHandler)
	prog.POST("/streak", h.registerStreakHandler)

	// AI generation routes (authenticated, each behind its own limiter so
	// the identity key is the user id, not the client IP)
	aiGroup := g.Group("/ai")
	aiGroup.Use(auth.RequireAuth(h.Auth))
	aiGroup.POST("/exercises/generate", h.generateExercisesHandler, h.Limiters.Exercises.Middleware())
	aiGroup.POST("/exercises/submit", h.submitExerciseHandler)
	aiGroup.POST("/lessons/generate", h.generateLessonHandler, h.Limiters.Lessons.Middleware())
	aiGroup.POST("/journal/analyze", h.analyzeJournalHandler, h.Limiters.Journal.Middleware())
	aiGroup.POST("/journal/prompts", h.generatePromptsHandler, h.Limiters.Prompts.Middleware())

	// Admin routes
	admin := g.Group("/admin")
	admin.Use(auth.RequireAuth(h.Auth), auth.RequireAdmin())
	admin.GET("/stats", h.adminStatsHandler)
}
