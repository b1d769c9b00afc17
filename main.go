package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"lingopath-backend/internal/ai"
	"lingopath-backend/internal/api"
	"lingopath-backend/internal/auth"
	"lingopath-backend/internal/database"
	"lingopath-backend/internal/models"
	"lingopath-backend/internal/progress"
)

func main() {
	// Get database path from environment or default
	dbPath := os.Getenv("LINGOPATH_DB_PATH")
	if dbPath == "" {
		dbPath = "./lingopath.db"
	}
	if !filepath.IsAbs(dbPath) {
		cwd, _ := os.Getwd()
		dbPath = filepath.Join(cwd, dbPath)
	}

	log.Printf("Initializing database at %s", dbPath)
	if err := database.Open(database.Config{Path: dbPath}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	userRepo := database.NewUserRepo()

	if err := createDefaultAdminIfNeeded(userRepo); err != nil {
		log.Printf("Warning: failed to create default admin: %v", err)
	}

	// Session store with background expiry sweep
	sessions := auth.NewSessionStore(auth.DefaultSessionTTL)
	sessions.StartSweeper(auth.DefaultSweepInterval)
	defer sessions.Stop()

	authSvc := auth.NewService(userRepo, sessions)

	limiters := api.NewLimiters()
	defer limiters.Stop()

	handlers := &api.Handlers{
		Auth:         authSvc,
		Users:        userRepo,
		Ledger:       progress.NewLedger(),
		Streaks:      progress.NewStreakTracker(),
		Languages:    database.NewLanguageRepo(),
		Achievements: database.NewAchievementRepo(),
		AI: ai.NewClient(
			os.Getenv("LINGOPATH_AI_BASE_URL"),
			os.Getenv("LINGOPATH_AI_API_KEY"),
			os.Getenv("LINGOPATH_AI_MODEL"),
		),
		Limiters: limiters,
	}
	if handlers.AI == nil {
		log.Println("AI generation endpoints disabled (LINGOPATH_AI_BASE_URL not set)")
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	api.RegisterRoutes(e.Group("/api"), handlers)

	port := os.Getenv("LINGOPATH_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Lingopath backend on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}

// createDefaultAdminIfNeeded creates a default admin user if no users exist
func createDefaultAdminIfNeeded(userRepo *database.UserRepo) error {
	count, err := userRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Creating default admin user (admin@lingopath.local/admin) - CHANGE THIS PASSWORD!")

	passwordHash, err := auth.HashPassword("admin")
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        "admin@lingopath.local",
		Name:         "Administrator",
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}

	return userRepo.Create(admin)
}
