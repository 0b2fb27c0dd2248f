package realtime

import (
	"encoding/json"

	"github.com/berrymaze/game-backend/internal/model"
)

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventPositionUpdate      Event = "positionUpdate"
	EventTurnStateChanged    Event = "turnStateChanged"
	EventMoveError           Event = "moveError"
	EventValidMoves          Event = "validMoves"
	EventActivePlayerChanged Event = "activePlayerChanged"
	EventActivePlayer        Event = "activePlayer"
	EventGameInfos           Event = "gameInfos"
	EventCurrentPlayers      Event = "currentPlayers"
	EventReadyStatusUpdate   Event = "readyStatusUpdate"
	EventAllPlayersReady     Event = "allPlayersReady"
	EventTutorialAllFinished Event = "tutorialAllFinished"
	EventStartGame           Event = "startGame"
	EventCardDrawn           Event = "cardDrawn"
	EventQuizStarted         Event = "quizStarted"
	EventQuizQuestion        Event = "quizQuestion"
	EventQuizAnswerResult    Event = "quizAnswerResult"
	EventQuizEnd             Event = "quizEnd"
	EventBettingStarted      Event = "bettingStarted"
	EventBetPlaced           Event = "betPlaced"
	EventChallengeResult     Event = "challengeResult"
	EventObjectPickedUp      Event = "objectPickedUp"
	EventObjectDiscarded     Event = "objectDiscarded"
	EventObjectUsed          Event = "objectUsed"
	EventGameError           Event = "gameError"
)

// Envelope is the outbound message frame.
type Envelope struct {
	Event Event       `json:"event"`
	Data  interface{} `json:"data"`
}

// ─── Inbound (Client → Server) ──────────────────────────────────────

// Inbound is the client message frame; Data is decoded per event.
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type JoinRoomPayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

type GamePayload struct {
	GameID string `json:"gameId"`
}

type PlayerPayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

type MovePayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	Move     string `json:"move"`
}

type ReadyPayload struct {
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName"`
	IsReady    bool   `json:"isReady"`
}

type AvatarPayload struct {
	GameID       string `json:"gameId"`
	PlayerID     string `json:"playerId"`
	AvatarBase64 string `json:"avatarBase64"`
}

type StartQuizPayload struct {
	GameID           string `json:"gameId"`
	PlayerID         string `json:"playerId"`
	ChosenTheme      string `json:"chosenTheme"`
	ChosenDifficulty string `json:"chosenDifficulty"`
}

type QuizAnswerPayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	Answer   string `json:"answer"`
}

type BetPayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	Bet      int    `json:"bet"`
}

type VotePayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	Vote     bool   `json:"vote"`
}

type ItemPayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	ItemID   int    `json:"itemId"`
}

type TeleportPayload struct {
	GameID     string `json:"gameId"`
	PlayerID   string `json:"playerId"`
	Coordinate string `json:"coordinate"`
}

// ─── Outbound payload shapes ────────────────────────────────────────

type PositionUpdate struct {
	PlayerID    string            `json:"playerId"`
	Position    model.Position    `json:"position"`
	Orientation model.Orientation `json:"orientation"`
	Snippet     model.Snippet     `json:"snippet"`
}

type TurnStateChanged struct {
	TurnState model.TurnState `json:"turnState"`
	PlayerID  string          `json:"playerId,omitempty"`
}

type Notice struct {
	Message string `json:"message"`
}

type ActivePlayerChanged struct {
	ActivePlayerID   string          `json:"activePlayerId"`
	ActivePlayerName string          `json:"activePlayerName"`
	TurnState        model.TurnState `json:"turnState"`
}

type QuizStarted struct {
	ChosenTheme      string `json:"chosenTheme"`
	ChosenDifficulty string `json:"chosenDifficulty"`
}

type QuizQuestion struct {
	QuestionIndex       int      `json:"questionIndex"`
	QuestionID          int      `json:"questionId"`
	QuestionDescription string   `json:"questionDescription"`
	QuestionImage       string   `json:"questionImage"`
	QuestionOptions     []string `json:"questionOptions"`
	QuestionDifficulty  int      `json:"questionDifficulty"`
	QuestionCategory    string   `json:"questionCategory"`
}

type QuizAnswerResult struct {
	QuestionIndex int    `json:"questionIndex"`
	CorrectAnswer string `json:"correctAnswer"`
	GivenAnswer   string `json:"givenAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	PlayerID      string `json:"playerId"`
}

type QuizActiveResult struct {
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
	Reward         int    `json:"reward"`
	Message        string `json:"message"`
}

type QuizPassiveResult struct {
	PlayerID string `json:"playerId"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
	Reward   int    `json:"reward"`
	Message  string `json:"message"`
}

type QuizEnd struct {
	ActivePlayerID   string              `json:"activePlayerId"`
	ChosenDifficulty string              `json:"chosenDifficulty"`
	ActiveResult     QuizActiveResult    `json:"activeResult"`
	NonActiveResults []QuizPassiveResult `json:"nonActiveResults"`
}

type ReadyStatusUpdate struct {
	PlayerName string `json:"playerName"`
	IsReady    bool   `json:"isReady"`
}

type ActivePlayer struct {
	ActivePlayerName string `json:"activePlayerName"`
}

type GameStart struct {
	Maze             model.Maze      `json:"maze"`
	Players          []*model.Player `json:"players"`
	ActivePlayerName string          `json:"activePlayerName"`
}

type CardDrawn struct {
	PlayerID string      `json:"playerId"`
	Card     *model.Card `json:"card"`
}

type BettingStarted struct {
	ActivePlayerID string `json:"activePlayerId"`
}

type BetPlaced struct {
	PlayerName string `json:"playerName"`
	Bet        int    `json:"bet"`
}

type ChallengeResult struct {
	PlayerID string `json:"playerId"`
	Success  bool   `json:"success"`
	Delta    int    `json:"delta"`
	Message  string `json:"message"`
}

type ObjectPickedUp struct {
	PlayerID string     `json:"playerId"`
	ItemData model.Item `json:"itemData"`
}

type ObjectDiscarded struct {
	PlayerID string `json:"playerId"`
	ItemID   int    `json:"itemId"`
}

type ObjectUsed struct {
	PlayerID string `json:"playerId"`
	ItemID   int    `json:"itemId"`
	Message  string `json:"message"`
}

type PlayerInfo struct {
	PlayerID     string       `json:"playerId"`
	PlayerName   string       `json:"playerName"`
	Berries      int          `json:"berries"`
	Rank         int          `json:"rank"`
	AvatarBase64 string       `json:"avatarBase64"`
	Inventory    []model.Item `json:"inventory"`
}

type GameInfos struct {
	Players          []PlayerInfo `json:"players"`
	ActivePlayerName string       `json:"activePlayerName"`
}
