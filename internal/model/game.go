package model

// GameStatus is the lifecycle state of a session.
type GameStatus string

const (
	GameStatusWaiting GameStatus = "waiting"
	GameStatusActive  GameStatus = "active"
)

// TurnState drives the client UI through the sub-phases of a turn.
type TurnState string

const (
	TurnStateMovement       TurnState = "movement"
	TurnStateDrawStep       TurnState = "drawStep"
	TurnStateCardDrawn      TurnState = "cardDrawn"
	TurnStateQuizInProgress TurnState = "quizInProgress"
	TurnStateQuizResult     TurnState = "quizResult"
	TurnStateBetting        TurnState = "betting"
)

// GameState is the decoded view of a session's Redis hash. The store is
// the source of truth; this struct never outlives a single operation.
type GameState struct {
	Players        []*Player  `json:"players"`
	ActivePlayerID string     `json:"activePlayerId"`
	Status         GameStatus `json:"status"`
	TurnState      TurnState  `json:"turnState"`
	Maze           Maze       `json:"maze"`
}

// ActivePlayer returns the session's active player, or nil if the
// activePlayerId no longer resolves (an invariant violation).
func (g *GameState) ActivePlayer() *Player {
	return FindPlayer(g.Players, g.ActivePlayerID)
}
