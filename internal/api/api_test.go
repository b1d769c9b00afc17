package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingopath-backend/internal/auth"
	"lingopath-backend/internal/database"
	"lingopath-backend/internal/models"
	"lingopath-backend/internal/progress"
)

func newTestAPI(t *testing.T) *echo.Echo {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.Open(database.Config{Path: dbPath}))
	t.Cleanup(func() { database.Close() })

	sessions := auth.NewSessionStore(time.Hour)
	t.Cleanup(sessions.Stop)

	limiters := NewLimiters()
	t.Cleanup(limiters.Stop)

	h := &Handlers{
		Auth:         auth.NewService(database.NewUserRepo(), sessions),
		Users:        database.NewUserRepo(),
		Ledger:       progress.NewLedger(),
		Streaks:      progress.NewStreakTracker(),
		Languages:    database.NewLanguageRepo(),
		Achievements: database.NewAchievementRepo(),
		AI:           nil, // generation not configured in tests
		Limiters:     limiters,
	}

	e := echo.New()
	RegisterRoutes(e.Group("/api"), h)
	return e
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/api/auth/register", "",
		fmt.Sprintf(`{"email":%q,"password":"secret123","name":"Test"}`, email))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthCheck(t *testing.T) {
	e := newTestAPI(t)
	rec := doJSON(e, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterLoginAndMe(t *testing.T) {
	e := newTestAPI(t)
	token := registerUser(t, e, "anna@example.com")

	rec := doJSON(e, http.MethodGet, "/api/auth/me", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "anna@example.com")
	assert.NotContains(t, rec.Body.String(), "password_hash")

	// Duplicate registration
	rec = doJSON(e, http.MethodPost, "/api/auth/register", "",
		`{"email":"anna@example.com","password":"other","name":"B"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Login with the right and wrong password
	rec = doJSON(e, http.MethodPost, "/api/auth/login", "",
		`{"email":"anna@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/auth/login", "",
		`{"email":"anna@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnauthorizedIsUniform(t *testing.T) {
	e := newTestAPI(t)

	// Missing, malformed and unknown tokens all produce the same body
	for _, token := range []string{"", "garbage", strings.Repeat("ab", 32)} {
		rec := doJSON(e, http.MethodGet, "/api/progress", token, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	e := newTestAPI(t)
	token := registerUser(t, e, "anna@example.com")

	rec := doJSON(e, http.MethodPost, "/api/auth/logout", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/auth/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProgressFlow(t *testing.T) {
	e := newTestAPI(t)
	token := registerUser(t, e, "anna@example.com")

	rec := doJSON(e, http.MethodPost, "/api/progress/xp", token, `{"amount":50}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"xp":50,"level":1,"leveled_up":false}`, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/api/progress/xp", token, `{"amount":60}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"xp":110,"level":2,"leveled_up":true}`, rec.Body.String())

	// Non-positive amounts are rejected, not clamped
	rec = doJSON(e, http.MethodPost, "/api/progress/xp", token, `{"amount":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(e, http.MethodPost, "/api/progress/xp", token, `{"amount":-10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/progress/language", token,
		`{"language":"spanish","progress":40}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/progress", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var progResp struct {
		XP               int            `json:"xp"`
		Level            int            `json:"level"`
		LanguageProgress map[string]int `json:"language_progress"`
		Achievements     []string       `json:"achievements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progResp))
	assert.Equal(t, 110, progResp.XP)
	assert.Equal(t, 2, progResp.Level)
	assert.Equal(t, map[string]int{"spanish": 40}, progResp.LanguageProgress)
	assert.Empty(t, progResp.Achievements)
}

func TestStreakEndpoints(t *testing.T) {
	e := newTestAPI(t)
	token := registerUser(t, e, "anna@example.com")

	// Registration seeds the streak so the first engagement lands on 1
	rec := doJSON(e, http.MethodGet, "/api/progress/streak", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"streak":0}`, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/api/progress/streak", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"streak":1}`, rec.Body.String())

	// Same-day repeat is idempotent
	rec = doJSON(e, http.MethodPost, "/api/progress/streak", token, "")
	assert.JSONEq(t, `{"streak":1}`, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/api/progress/streak", token, "")
	assert.JSONEq(t, `{"streak":1}`, rec.Body.String())
}

func TestSubmitExerciseAwardsXPAndStreak(t *testing.T) {
	e := newTestAPI(t)
	token := registerUser(t, e, "anna@example.com")

	rec := doJSON(e, http.MethodPost, "/api/ai/exercises/submit", token,
		`{"exercise_id":"ai_vocab_x","correct":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"xp":20,"level":1,"leveled_up":false,"streak":1}`, rec.Body.String())

	// A wrong answer still counts as engagement but awards nothing
	rec = doJSON(e, http.MethodPost, "/api/ai/exercises/submit", token,
		`{"exercise_id":"ai_vocab_y","correct":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"xp":20,"level":1,"leveled_up":false,"streak":1}`, rec.Body.String())
}

func TestGenerationUnavailableWithoutClient(t *testing.T) {
	e := newTestAPI(t)
	token := registerUser(t, e, "anna@example.com")

	rec := doJSON(e, http.MethodPost, "/api/ai/lessons/generate", token,
		`{"language":"spanish","topic":"greetings"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestExerciseGenerationRateLimit(t *testing.T) {
	e := newTestAPI(t)
	token := registerUser(t, e, "anna@example.com")

	body := `{"language":"spanish","type":"vocab"}`
	for i := 0; i < exercisesPerMinute; i++ {
		rec := doJSON(e, http.MethodPost, "/api/ai/exercises/generate", token, body)
		// Limiter passes; the unconfigured client answers 503
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "request %d", i+1)
	}

	rec := doJSON(e, http.MethodPost, "/api/ai/exercises/generate", token, body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "retry_after")
}

func TestRateLimitKeyedByUserNotIP(t *testing.T) {
	e := newTestAPI(t)
	tokenA := registerUser(t, e, "a@example.com")
	tokenB := registerUser(t, e, "b@example.com")

	// Both users come from the same test IP; exhausting A's window must
	// not throttle B.
	body := `{"language":"spanish","type":"vocab"}`
	for i := 0; i < exercisesPerMinute; i++ {
		doJSON(e, http.MethodPost, "/api/ai/exercises/generate", tokenA, body)
	}
	rec := doJSON(e, http.MethodPost, "/api/ai/exercises/generate", tokenA, body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/ai/exercises/generate", tokenB, body)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminStatsRequiresAdminRole(t *testing.T) {
	e := newTestAPI(t)
	learnerToken := registerUser(t, e, "learner@example.com")

	rec := doJSON(e, http.MethodGet, "/api/admin/stats", learnerToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Promote a user to admin directly in the store, then log in
	hash, err := auth.HashPassword("admin-pass")
	require.NoError(t, err)
	admin := &models.User{Email: "admin@example.com", PasswordHash: hash, Role: models.RoleAdmin}
	require.NoError(t, database.NewUserRepo().Create(admin))

	rec = doJSON(e, http.MethodPost, "/api/auth/login", "",
		`{"email":"admin@example.com","password":"admin-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = doJSON(e, http.MethodGet, "/api/admin/stats", login.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats["users"])
	assert.GreaterOrEqual(t, stats["sessions"], 2)
}

func TestLoginRateLimit(t *testing.T) {
	e := newTestAPI(t)
	registerUser(t, e, "anna@example.com")

	// Unauthenticated logins are keyed by client IP
	body := `{"email":"anna@example.com","password":"wrong"}`
	for i := 0; i < loginMaxAttempts; i++ {
		rec := doJSON(e, http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d", i+1)
	}

	rec := doJSON(e, http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
