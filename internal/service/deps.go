package service

import (
	"context"

	"github.com/berrymaze/game-backend/internal/model"
	"github.com/berrymaze/game-backend/internal/realtime"
)

// GameStore is the session store contract. Redis backs it in
// production; tests use an in-memory fake. Services receive it
// explicitly; there are no ambient store handles.
type GameStore interface {
	Exists(ctx context.Context, gameID string) (bool, error)
	Create(ctx context.Context, gameID string, state *model.GameState) error
	Game(ctx context.Context, gameID string) (*model.GameState, error)
	SavePlayers(ctx context.Context, gameID string, players []*model.Player) error
	SetActivePlayer(ctx context.Context, gameID, playerID string) error
	SetStatus(ctx context.Context, gameID string, status model.GameStatus) error
	SetTurnState(ctx context.Context, gameID string, state model.TurnState) error
	SetCurrentCard(ctx context.Context, gameID string, card *model.Card) error
	CurrentCard(ctx context.Context, gameID string) (*model.Card, error)
	QuizState(ctx context.Context, gameID string) (*model.QuizState, error)
	SaveQuizState(ctx context.Context, gameID string, qs *model.QuizState) error
	ChallengeState(ctx context.Context, gameID string) (*model.ChallengeState, error)
	SaveChallengeState(ctx context.Context, gameID string, cs *model.ChallengeState) error

	ForcedDraw(ctx context.Context, gameID, playerID string) ([]int, int, error)
	SetForcedDraw(ctx context.Context, gameID, playerID string, cardIDs []int, uses int) error
	SetForcedDrawCount(ctx context.Context, gameID, playerID string, uses int) error
	ClearForcedDraw(ctx context.Context, gameID, playerID string) error

	DoubleTurn(ctx context.Context, gameID, playerID string) (bool, error)
	SetDoubleTurn(ctx context.Context, gameID, playerID string) error
	ClearDoubleTurn(ctx context.Context, gameID, playerID string) error
}

// ResultQueue accepts quiz result records for asynchronous persistence.
type ResultQueue interface {
	EnqueueQuizResult(ctx context.Context, rec model.QuizResultRecord) error
}

// QuestionSource is the external question-bank lookup.
type QuestionSource interface {
	ThreeQuestions(ctx context.Context, theme, difficultyChoice string) ([]model.Question, error)
}

// CardSource is the external card-catalog lookup.
type CardSource interface {
	RandomCard(ctx context.Context) (*model.Card, error)
	CardByID(ctx context.Context, id int) (*model.Card, error)
}

// Broadcaster is the room publish mechanism. The engine never addresses
// individual connections except by logical player ID.
type Broadcaster interface {
	BroadcastToGame(gameID string, event realtime.Event, data interface{})
	SendToPlayer(playerID string, event realtime.Event, data interface{})
}
