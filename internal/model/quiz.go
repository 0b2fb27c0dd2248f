package model

// Quiz difficulty labels as the client sends them.
const (
	DifficultyBeginner = "Débutant"
	DifficultyExpert   = "Expert"
)

// QuizQuestionCount is the fixed number of questions per quiz card.
const QuizQuestionCount = 3

// TimedOutAnswer is the sentinel the client sends when a question timer
// expires. It is never scored correct, even on a coincidental match
// with the answer key.
const TimedOutAnswer = "TIMED_OUT"

// AllowedDifficulties maps a difficulty label to the numeric question
// difficulties the bank may sample from.
func AllowedDifficulties(choice string) []int {
	switch choice {
	case DifficultyBeginner:
		return []int{1, 2}
	case DifficultyExpert:
		return []int{2, 3}
	default:
		return []int{1, 2, 3}
	}
}

// AnswerTally is a passive player's private running score.
type AnswerTally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// QuizState is the transient per-session record of an in-progress quiz.
// It lives in the session hash and is overwritten by the next quiz.
type QuizState struct {
	Questions        []Question              `json:"questions"`
	CurrentQuestion  int                     `json:"currentQuestion"`
	CorrectAnswers   int                     `json:"correctAnswers"`
	ChosenTheme      string                  `json:"chosenTheme"`
	ChosenDifficulty string                  `json:"chosenDifficulty"`
	NonActiveAnswers map[string]*AnswerTally `json:"nonActiveAnswers"`
	// HasMovedOn guards against a duplicate answer event advancing the
	// question index twice.
	HasMovedOn bool `json:"hasMovedOn"`
}

// CurrentQuestionRecord returns the in-flight question, or nil once the
// quiz has run past its last question.
func (q *QuizState) CurrentQuestionRecord() *Question {
	if q.CurrentQuestion < 0 || q.CurrentQuestion >= len(q.Questions) {
		return nil
	}
	return &q.Questions[q.CurrentQuestion]
}

// QuizResultRecord is the payload queued for the result history worker.
type QuizResultRecord struct {
	GameID         string `json:"game_id"`
	PlayerID       string `json:"player_id"`
	Difficulty     string `json:"difficulty"`
	CorrectAnswers int    `json:"correct_answers"`
	Reward         int    `json:"reward"`
	IsActivePlayer bool   `json:"is_active_player"`
}
