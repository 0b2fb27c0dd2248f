package model

// ChallengeState is the transient per-session record of an in-progress
// challenge/betting card. Bets and votes are keyed by playerId.
type ChallengeState struct {
	Bets  map[string]int  `json:"bets"`
	Votes map[string]bool `json:"votes"`
}

// NewChallengeState creates an empty challenge record.
func NewChallengeState() *ChallengeState {
	return &ChallengeState{
		Bets:  make(map[string]int),
		Votes: make(map[string]bool),
	}
}
