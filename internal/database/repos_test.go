package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingopath-backend/internal/models"
)

func openTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, Open(Config{Path: filepath.Join(t.TempDir(), "test.db")}))
	t.Cleanup(func() { Close() })
}

func TestUserRepoCreateAndGet(t *testing.T) {
	openTestDB(t)
	repo := NewUserRepo()

	user := &models.User{
		Email:        "anna@example.com",
		Name:         "Anna",
		PasswordHash: "hash",
		Role:         models.RoleLearner,
	}
	require.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)

	byID, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", byID.Email)
	assert.Equal(t, models.RoleLearner, byID.Role)

	byEmail, err := repo.GetByEmail("anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.GetByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	openTestDB(t)
	repo := NewUserRepo()

	require.NoError(t, repo.Create(&models.User{Email: "a@b.c", PasswordHash: "h", Role: models.RoleLearner}))
	err := repo.Create(&models.User{Email: "a@b.c", PasswordHash: "h2", Role: models.RoleLearner})
	assert.Error(t, err) // unique constraint
}

func TestLanguageRepoUpsert(t *testing.T) {
	openTestDB(t)
	users := NewUserRepo()
	langs := NewLanguageRepo()

	user := &models.User{Email: "a@b.c", PasswordHash: "h", Role: models.RoleLearner}
	require.NoError(t, users.Create(user))

	require.NoError(t, langs.Upsert(user.ID, "spanish", 20))
	require.NoError(t, langs.Upsert(user.ID, "french", 5))
	require.NoError(t, langs.Upsert(user.ID, "spanish", 35)) // overwrite

	all, err := langs.GetAll(user.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"spanish": 35, "french": 5}, all)

	empty, err := langs.GetAll(9999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAchievementRepoGrantIsIdempotent(t *testing.T) {
	openTestDB(t)
	users := NewUserRepo()
	achievements := NewAchievementRepo()

	user := &models.User{Email: "a@b.c", PasswordHash: "h", Role: models.RoleLearner}
	require.NoError(t, users.Create(user))

	require.NoError(t, achievements.Grant(user.ID, "first_lesson"))
	require.NoError(t, achievements.Grant(user.ID, "first_lesson"))
	require.NoError(t, achievements.Grant(user.ID, "week_streak"))

	keys, err := achievements.List(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first_lesson", "week_streak"}, keys)
}
