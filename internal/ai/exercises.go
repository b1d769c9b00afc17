package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Exercise is one generated practice item. Answer holds one accepted
// answer or, for translation items, several.
type Exercise struct {
	ID         string   `json:"id"`
	Lang       string   `json:"lang"`
	Type       string   `json:"type"`
	Question   string   `json:"question"`
	Options    []string `json:"options,omitempty"`
	Answer     answer   `json:"answer"`
	Explain    string   `json:"explain,omitempty"`
	Difficulty string   `json:"difficulty"`
}

// answer accepts either a bare string or an array of strings from the
// model and always marshals back as an array.
type answer []string

func (a *answer) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = answer{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*a = answer(many)
	return nil
}

var exercisePrompts = map[string]string{
	"vocab": `Generate %d vocabulary exercises for %s at %s level.
For each exercise ask for a translation or meaning, give 4 multiple choice options, the correct answer, and a brief explanation.
Return ONLY a JSON object with an "exercises" array of {"question", "options", "answer", "explain", "difficulty"}.`,
	"translation": `Generate %d translation exercises for %s at %s level.
For each exercise give a phrase to translate, an "answer" array of accepted translations, and an explanation.
Return ONLY a JSON object with an "exercises" array of {"question", "answer", "explain", "difficulty"}.`,
	"fillblank": `Generate %d fill-in-the-blank exercises for %s at %s level.
Each exercise is a sentence with ___ for the blank, 4 options, the correct answer, and an explanation.
Return ONLY a JSON object with an "exercises" array of {"question", "options", "answer", "explain", "difficulty"}.`,
	"sentencebuilding": `Generate %d sentence building exercises for %s at %s level.
Each exercise gives words to arrange, 4 candidate orderings as options, the correct ordering as answer, and an explanation.
Return ONLY a JSON object with an "exercises" array of {"question", "options", "answer", "explain", "difficulty"}.`,
	"multiplechoice": `Generate %d multiple choice questions about %s grammar and culture at %s level.
Each question has 4 options, the correct answer, and an explanation.
Return ONLY a JSON object with an "exercises" array of {"question", "options", "answer", "explain", "difficulty"}.`,
}

const exerciseSystem = "You are a language learning expert who creates engaging, educational exercises. Return only valid JSON without any markdown formatting or code blocks."

// GenerateExercises asks the model for a batch of practice exercises
func (c *Client) GenerateExercises(ctx context.Context, language, exType, difficulty string, count int) ([]Exercise, error) {
	tmpl, ok := exercisePrompts[exType]
	if !ok {
		tmpl = exercisePrompts["vocab"]
	}
	prompt := fmt.Sprintf(tmpl, count, language, difficulty)

	content, err := c.complete(ctx, exerciseSystem, prompt, true)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Exercises []Exercise `json:"exercises"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
		// Some models return a bare array instead of the wrapper object
		if arrErr := json.Unmarshal([]byte(content), &wrapper.Exercises); arrErr != nil {
			return nil, fmt.Errorf("failed to parse generated exercises: %w", err)
		}
	}

	for i := range wrapper.Exercises {
		wrapper.Exercises[i].ID = fmt.Sprintf("ai_%s_%s", exType, uuid.NewString())
		wrapper.Exercises[i].Lang = language
		wrapper.Exercises[i].Type = exType
	}

	return wrapper.Exercises, nil
}
