package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// JournalAnalysis is the model's feedback on a journal entry
type JournalAnalysis struct {
	Corrected   string       `json:"corrected"`
	Corrections []Correction `json:"corrections"`
	Vocabulary  []VocabTip   `json:"vocabulary"`
	Feedback    string       `json:"feedback"`
}

// Correction is one specific fix with its reason
type Correction struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// VocabTip is a vocabulary suggestion drawn from the entry
type VocabTip struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
	Example string `json:"example"`
}

// AnalyzeJournal asks the model to correct and comment on a journal entry
func (c *Client) AnalyzeJournal(ctx context.Context, text, targetLanguage string) (*JournalAnalysis, error) {
	if targetLanguage == "" {
		targetLanguage = "English"
	}

	system := fmt.Sprintf(`You are a language learning assistant. Analyze the user's text for grammar, spelling, vocabulary, and language learning insights. Provide a corrected version, specific corrections with explanations, vocabulary suggestions, and overall feedback on their %s writing.
Format your response as JSON: {"corrected", "corrections" (array of {"from","to","reason"}), "vocabulary" (array of {"word","meaning","example"}), "feedback"}.`, targetLanguage)

	content, err := c.complete(ctx, system, text, true)
	if err != nil {
		return nil, err
	}

	analysis := &JournalAnalysis{}
	if err := json.Unmarshal([]byte(content), analysis); err != nil {
		return nil, fmt.Errorf("failed to parse journal analysis: %w", err)
	}

	return analysis, nil
}

// GeneratePrompts asks the model for journaling prompts, one per line
func (c *Client) GeneratePrompts(ctx context.Context, language, level string) ([]string, error) {
	if language == "" {
		language = "English"
	}
	if level == "" {
		level = "beginner"
	}

	system := fmt.Sprintf("Generate 5 creative journaling prompts for %s %s language learners. Make them engaging and appropriate for their level. Return one prompt per line with no numbering.", level, language)

	content, err := c.complete(ctx, system, "Generate journaling prompts", false)
	if err != nil {
		return nil, err
	}

	var prompts []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			prompts = append(prompts, line)
		}
	}

	return prompts, nil
}
