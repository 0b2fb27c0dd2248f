package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/berrymaze/game-backend/internal/config"
	"github.com/berrymaze/game-backend/internal/model"
)

// Session hash field names.
const (
	fieldPlayers        = "players"
	fieldActivePlayerID = "activePlayerId"
	fieldStatus         = "status"
	fieldTurnState      = "turnState"
	fieldMaze           = "maze"
	fieldQuizState      = "quizState"
	fieldChallengeState = "challengeState"
	fieldCurrentCard    = "currentCard"
)

// GameRepository is the session store. Every field of the game hash is
// serialized text; this type owns encode/decode at the read/write
// boundary so the services above it only see model types.
type GameRepository struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewGameRepository creates a new GameRepository.
func NewGameRepository(rdb *redis.Client, log zerolog.Logger) *GameRepository {
	return &GameRepository{
		rdb: rdb,
		log: log.With().Str("component", "game_repository").Logger(),
	}
}

// Exists reports whether a game hash is present for the code.
func (r *GameRepository) Exists(ctx context.Context, gameID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, config.CacheKey.GameKey(gameID)).Result()
	return n > 0, err
}

// Create writes a fresh session hash in one HSET.
func (r *GameRepository) Create(ctx context.Context, gameID string, state *model.GameState) error {
	players, err := json.Marshal(state.Players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}
	maze, err := json.Marshal(state.Maze)
	if err != nil {
		return fmt.Errorf("encode maze: %w", err)
	}
	return r.rdb.HSet(ctx, config.CacheKey.GameKey(gameID), map[string]interface{}{
		fieldPlayers:        string(players),
		fieldActivePlayerID: state.ActivePlayerID,
		fieldStatus:         string(state.Status),
		fieldTurnState:      string(state.TurnState),
		fieldMaze:           string(maze),
	}).Err()
}

// Game loads and decodes the full session hash.
func (r *GameRepository) Game(ctx context.Context, gameID string) (*model.GameState, error) {
	data, err := r.rdb.HGetAll(ctx, config.CacheKey.GameKey(gameID)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || data[fieldPlayers] == "" {
		return nil, model.ErrGameNotFound
	}

	state := &model.GameState{
		ActivePlayerID: data[fieldActivePlayerID],
		Status:         model.GameStatus(data[fieldStatus]),
		TurnState:      model.TurnState(data[fieldTurnState]),
	}
	if err := json.Unmarshal([]byte(data[fieldPlayers]), &state.Players); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}
	if raw := data[fieldMaze]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &state.Maze); err != nil {
			return nil, fmt.Errorf("decode maze: %w", err)
		}
	}
	return state, nil
}

// SavePlayers persists the full player sequence.
func (r *GameRepository) SavePlayers(ctx context.Context, gameID string, players []*model.Player) error {
	encoded, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}
	return r.rdb.HSet(ctx, config.CacheKey.GameKey(gameID), fieldPlayers, string(encoded)).Err()
}

// SetActivePlayer persists the active player ID.
func (r *GameRepository) SetActivePlayer(ctx context.Context, gameID, playerID string) error {
	return r.rdb.HSet(ctx, config.CacheKey.GameKey(gameID), fieldActivePlayerID, playerID).Err()
}

// SetStatus persists the session lifecycle status.
func (r *GameRepository) SetStatus(ctx context.Context, gameID string, status model.GameStatus) error {
	return r.rdb.HSet(ctx, config.CacheKey.GameKey(gameID), fieldStatus, string(status)).Err()
}

// SetTurnState persists the turn sub-phase.
func (r *GameRepository) SetTurnState(ctx context.Context, gameID string, state model.TurnState) error {
	return r.rdb.HSet(ctx, config.CacheKey.GameKey(gameID), fieldTurnState, string(state)).Err()
}

// SetCurrentCard persists the drawn card reference.
func (r *GameRepository) SetCurrentCard(ctx context.Context, gameID string, card *model.Card) error {
	encoded, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("encode card: %w", err)
	}
	return r.rdb.HSet(ctx, config.CacheKey.GameKey(gameID), fieldCurrentCard, string(encoded)).Err()
}

// CurrentCard loads the drawn card reference, or nil when none is set.
func (r *GameRepository) CurrentCard(ctx context.Context, gameID string) (*model.Card, error) {
	raw, err := r.rdb.HGet(ctx, config.CacheKey.GameKey(gameID), fieldCurrentCard).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var card model.Card
	if err := json.Unmarshal([]byte(raw), &card); err != nil {
		return nil, fmt.Errorf("decode card: %w", err)
	}
	return &card, nil
}

// QuizState loads the transient quiz record, or nil when no quiz ran yet.
func (r *GameRepository) QuizState(ctx context.Context, gameID string) (*model.QuizState, error) {
	raw, err := r.rdb.HGet(ctx, config.CacheKey.GameKey(gameID), fieldQuizState).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var qs model.QuizState
	if err := json.Unmarshal([]byte(raw), &qs); err != nil {
		return nil, fmt.Errorf("decode quiz state: %w", err)
	}
	return &qs, nil
}

// SaveQuizState persists the transient quiz record.
func (r *GameRepository) SaveQuizState(ctx context.Context, gameID string, qs *model.QuizState) error {
	encoded, err := json.Marshal(qs)
	if err != nil {
		return fmt.Errorf("encode quiz state: %w", err)
	}
	return r.rdb.HSet(ctx, config.CacheKey.GameKey(gameID), fieldQuizState, string(encoded)).Err()
}

// ChallengeState loads the transient betting record, or nil.
func (r *GameRepository) ChallengeState(ctx context.Context, gameID string) (*model.ChallengeState, error) {
	raw, err := r.rdb.HGet(ctx, config.CacheKey.GameKey(gameID), fieldChallengeState).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cs model.ChallengeState
	if err := json.Unmarshal([]byte(raw), &cs); err != nil {
		return nil, fmt.Errorf("decode challenge state: %w", err)
	}
	return &cs, nil
}

// SaveChallengeState persists the transient betting record.
func (r *GameRepository) SaveChallengeState(ctx context.Context, gameID string, cs *model.ChallengeState) error {
	encoded, err := json.Marshal(cs)
	if err != nil {
		return fmt.Errorf("encode challenge state: %w", err)
	}
	return r.rdb.HSet(ctx, config.CacheKey.GameKey(gameID), fieldChallengeState, string(encoded)).Err()
}

// ─── Forced-draw override ───────────────────────────────────────────

// ForcedDraw returns the candidate card IDs and remaining-use counter
// for a player, or (nil, 0) when no override is set.
func (r *GameRepository) ForcedDraw(ctx context.Context, gameID, playerID string) ([]int, int, error) {
	raw, err := r.rdb.Get(ctx, config.CacheKey.ForcedDrawKey(gameID, playerID)).Result()
	if err == redis.Nil {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	countRaw, err := r.rdb.Get(ctx, config.CacheKey.ForcedDrawCountKey(gameID, playerID)).Result()
	if err == redis.Nil {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	count, err := strconv.Atoi(countRaw)
	if err != nil {
		return nil, 0, fmt.Errorf("decode forced draw count: %w", err)
	}

	var ids []int
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, 0, fmt.Errorf("decode forced draw ids: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, count, nil
}

// SetForcedDraw installs a forced-draw override.
func (r *GameRepository) SetForcedDraw(ctx context.Context, gameID, playerID string, cardIDs []int, uses int) error {
	parts := make([]string, len(cardIDs))
	for i, id := range cardIDs {
		parts[i] = strconv.Itoa(id)
	}
	if err := r.rdb.Set(ctx, config.CacheKey.ForcedDrawKey(gameID, playerID), strings.Join(parts, ","), 0).Err(); err != nil {
		return err
	}
	return r.rdb.Set(ctx, config.CacheKey.ForcedDrawCountKey(gameID, playerID), strconv.Itoa(uses), 0).Err()
}

// SetForcedDrawCount updates only the remaining-use counter.
func (r *GameRepository) SetForcedDrawCount(ctx context.Context, gameID, playerID string, uses int) error {
	return r.rdb.Set(ctx, config.CacheKey.ForcedDrawCountKey(gameID, playerID), strconv.Itoa(uses), 0).Err()
}

// ClearForcedDraw deletes both override keys.
func (r *GameRepository) ClearForcedDraw(ctx context.Context, gameID, playerID string) error {
	return r.rdb.Del(ctx,
		config.CacheKey.ForcedDrawKey(gameID, playerID),
		config.CacheKey.ForcedDrawCountKey(gameID, playerID),
	).Err()
}

// ─── Double-turn flag ───────────────────────────────────────────────

// DoubleTurn reports whether the player's extra-turn flag is set.
func (r *GameRepository) DoubleTurn(ctx context.Context, gameID, playerID string) (bool, error) {
	raw, err := r.rdb.Get(ctx, config.CacheKey.DoubleTurnKey(gameID, playerID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return raw == "1", nil
}

// SetDoubleTurn flags the player for one extra turn.
func (r *GameRepository) SetDoubleTurn(ctx context.Context, gameID, playerID string) error {
	return r.rdb.Set(ctx, config.CacheKey.DoubleTurnKey(gameID, playerID), "1", 0).Err()
}

// ClearDoubleTurn removes the extra-turn flag.
func (r *GameRepository) ClearDoubleTurn(ctx context.Context, gameID, playerID string) error {
	return r.rdb.Del(ctx, config.CacheKey.DoubleTurnKey(gameID, playerID)).Err()
}

// ─── Result history queue ───────────────────────────────────────────

// EnqueueQuizResult pushes a result record onto the persistence queue
// consumed by the quiz-result worker.
func (r *GameRepository) EnqueueQuizResult(ctx context.Context, rec model.QuizResultRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode quiz result: %w", err)
	}
	return r.rdb.RPush(ctx, config.WorkerKey.PersistQuizResultsQueue, payload).Err()
}
