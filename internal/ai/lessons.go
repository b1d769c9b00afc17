package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

// Lesson is a generated structured lesson
type Lesson struct {
	Name          string         `json:"name"`
	Goals         []string       `json:"goals"`
	Minutes       int            `json:"minutes"`
	Description   string         `json:"description"`
	Vocabulary    []VocabItem    `json:"vocabulary"`
	Grammar       []GrammarPoint `json:"grammar"`
	CulturalNotes []string       `json:"culturalNotes"`
}

// VocabItem is one vocabulary entry in a lesson
type VocabItem struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
	Example     string `json:"example"`
}

// GrammarPoint is one grammar topic in a lesson
type GrammarPoint struct {
	Point       string   `json:"point"`
	Explanation string   `json:"explanation"`
	Examples    []string `json:"examples"`
}

const lessonSystem = "You are an expert language teacher who creates comprehensive, engaging lessons. Return only valid JSON without any markdown formatting or code blocks."

// GenerateLesson asks the model for a full lesson on a topic
func (c *Client) GenerateLesson(ctx context.Context, language, topic, level string) (*Lesson, error) {
	prompt := fmt.Sprintf(`Create a %s lesson about "%s" for %s learners.
Return ONLY a JSON object: {"name", "goals" (array), "minutes" (number), "description", "vocabulary" (array of {"word","translation","example"}), "grammar" (array of {"point","explanation","examples"}), "culturalNotes" (array)}.`,
		level, topic, language)

	content, err := c.complete(ctx, lessonSystem, prompt, true)
	if err != nil {
		return nil, err
	}

	// Some models nest the result under a "lesson" key
	var wrapper struct {
		Lesson *Lesson `json:"lesson"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err == nil && wrapper.Lesson != nil {
		return validateLesson(wrapper.Lesson)
	}

	lesson := &Lesson{}
	if err := json.Unmarshal([]byte(content), lesson); err != nil {
		return nil, fmt.Errorf("failed to parse generated lesson: %w", err)
	}
	return validateLesson(lesson)
}

func validateLesson(l *Lesson) (*Lesson, error) {
	if l.Name == "" || len(l.Goals) == 0 || len(l.Vocabulary) == 0 {
		return nil, fmt.Errorf("generated lesson is missing required fields")
	}
	return l, nil
}
