package database

// AchievementRepo handles earned achievement keys
type AchievementRepo struct{}

// NewAchievementRepo creates a new achievement repository
func NewAchievementRepo() *AchievementRepo {
	return &AchievementRepo{}
}

// Grant records an achievement for a user. Granting the same key twice is
// a no-op.
func (r *AchievementRepo) Grant(userID int64, key string) error {
	_, err := DB.Exec(`
		INSERT INTO achievements (user_id, achievement_key)
		VALUES (?, ?)
		ON CONFLICT(user_id, achievement_key) DO NOTHING
	`, userID, key)
	return err
}

// List returns the achievement keys a user has earned
func (r *AchievementRepo) List(userID int64) ([]string, error) {
	rows, err := DB.Query(`
		SELECT achievement_key FROM achievements WHERE user_id = ? ORDER BY earned_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}
