package model

import (
	"encoding/json"
)

// Question is one trivia question from the question bank.
type Question struct {
	ID          int             `json:"question_id"`
	Description string          `json:"question_description"`
	Image       string          `json:"question_image"`
	Options     json.RawMessage `json:"question_options"` // JSON array of option strings
	Difficulty  int             `json:"question_difficulty"`
	Category    string          `json:"question_category"`
	Answer      string          `json:"question_answer"` // never broadcast
}

// OptionList decodes the stored options JSON into a string slice.
func (q *Question) OptionList() []string {
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}
