package models

// XPResult is the outcome of awarding experience points
type XPResult struct {
	XP        int  `json:"xp"`
	Level     int  `json:"level"`
	LeveledUp bool `json:"leveled_up"`
}

// ProgressResponse aggregates a learner's progress for the dashboard
type ProgressResponse struct {
	XP               int            `json:"xp"`
	Level            int            `json:"level"`
	LanguageProgress map[string]int `json:"language_progress"`
	Achievements     []string       `json:"achievements"`
}

// AddXPRequest represents the request body for awarding XP
type AddXPRequest struct {
	Amount int    `json:"amount"`
	Source string `json:"source,omitempty"`
}

// UpdateLanguageRequest represents the request body for language progress updates
type UpdateLanguageRequest struct {
	Language string `json:"language" validate:"required"`
	Progress int    `json:"progress"`
}
