package database

import "time"

// LanguageRepo handles per-language progress percentages
type LanguageRepo struct{}

// NewLanguageRepo creates a new language progress repository
func NewLanguageRepo() *LanguageRepo {
	return &LanguageRepo{}
}

// Upsert sets a user's progress for one language
func (r *LanguageRepo) Upsert(userID int64, language string, progress int) error {
	_, err := DB.Exec(`
		INSERT INTO language_progress (user_id, language, progress, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, language) DO UPDATE SET progress = excluded.progress, updated_at = excluded.updated_at
	`, userID, language, progress, time.Now())
	return err
}

// GetAll returns every language's progress for a user as a map
func (r *LanguageRepo) GetAll(userID int64) (map[string]int, error) {
	rows, err := DB.Query(`
		SELECT language, progress FROM language_progress WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var language string
		var progress int
		if err := rows.Scan(&language, &progress); err != nil {
			return nil, err
		}
		result[language] = progress
	}

	return result, rows.Err()
}
