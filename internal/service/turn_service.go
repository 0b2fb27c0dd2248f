package service

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/berrymaze/game-backend/internal/model"
	"github.com/berrymaze/game-backend/internal/realtime"
)

// TurnService is the top-level turn orchestrator: movement validation,
// draw triggering, forced-draw resolution and active-player rotation.
// It is stateless between calls; the store holds all session state and
// the session lock serializes mutations per game.
type TurnService struct {
	store GameStore
	cards CardSource
	disp  *CardService
	rt    Broadcaster
	locks *SessionLocks
	log   zerolog.Logger

	// drawDelay paces the UI between a completed move and the draw
	// step. Not a correctness mechanism.
	drawDelay time.Duration

	// Indirection for tests.
	schedule func(d time.Duration, fn func())
	randIntN func(n int) int
}

// NewTurnService creates a new TurnService.
func NewTurnService(store GameStore, cards CardSource, disp *CardService, rt Broadcaster, locks *SessionLocks, drawDelay time.Duration, log zerolog.Logger) *TurnService {
	return &TurnService{
		store:     store,
		cards:     cards,
		disp:      disp,
		rt:        rt,
		locks:     locks,
		log:       log.With().Str("component", "turn_service").Logger(),
		drawDelay: drawDelay,
		schedule:  func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		randIntN:  rand.IntN,
	}
}

// HandleMove validates and applies a player's move, then schedules the
// automatic draw step. Invalid moves and unknown players produce a
// client-visible moveError notice, never a fault.
func (s *TurnService) HandleMove(ctx context.Context, gameID, playerID string, move model.Move) {
	defer s.locks.Lock(gameID)()

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}

	player := model.FindPlayer(state.Players, playerID)
	if player == nil {
		s.log.Error().Str("game_id", gameID).Str("player_id", playerID).Msg("Player not found")
		s.rt.BroadcastToGame(gameID, realtime.EventMoveError, realtime.Notice{Message: "Player not found"})
		return
	}

	valid := state.Maze.ComputeValidMoves(player.Position, player.Orientation)
	if !moveAllowed(move, valid) {
		s.rt.BroadcastToGame(gameID, realtime.EventMoveError, realtime.Notice{Message: "Invalid move"})
		return
	}

	outcome := state.Maze.ApplyMove(player, move)
	if !outcome.Success {
		s.rt.BroadcastToGame(gameID, realtime.EventMoveError, realtime.Notice{Message: outcome.Reason})
		return
	}

	if err := s.store.SavePlayers(ctx, gameID, state.Players); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist players failed")
		return
	}

	s.log.Debug().
		Str("player", player.PlayerName).
		Str("coord", model.GridLabel(player.Position.X, player.Position.Y)).
		Str("orientation", string(player.Orientation)).
		Msg("Player moved")

	s.rt.BroadcastToGame(gameID, realtime.EventPositionUpdate, realtime.PositionUpdate{
		PlayerID:    playerID,
		Position:    player.Position,
		Orientation: player.Orientation,
		Snippet:     state.Maze.LocalSnippet(player.Position.X, player.Position.Y, player.Orientation),
	})

	if err := s.store.SetTurnState(ctx, gameID, model.TurnStateDrawStep); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist turn state failed")
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventTurnStateChanged, realtime.TurnStateChanged{
		TurnState: model.TurnStateDrawStep,
		PlayerID:  playerID,
	})

	s.schedule(s.drawDelay, func() {
		s.HandleDrawCard(context.Background(), gameID, playerID)
	})
}

// GetValidMoves answers a single player's legal-move query.
func (s *TurnService) GetValidMoves(ctx context.Context, gameID, playerID string) {
	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		s.rt.SendToPlayer(playerID, realtime.EventGameError, realtime.Notice{Message: "Error getting valid moves"})
		return
	}
	player := model.FindPlayer(state.Players, playerID)
	if player == nil {
		s.rt.SendToPlayer(playerID, realtime.EventGameError, realtime.Notice{Message: "Player not found"})
		return
	}
	s.rt.SendToPlayer(playerID, realtime.EventValidMoves,
		state.Maze.ComputeValidMoves(player.Position, player.Orientation))
}

// HandleDrawCard resolves the player's draw (forced override first) and
// hands the card to its category handler.
func (s *TurnService) HandleDrawCard(ctx context.Context, gameID, playerID string) {
	defer s.locks.Lock(gameID)()

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}
	player := model.FindPlayer(state.Players, playerID)
	if player == nil {
		s.log.Error().Str("game_id", gameID).Str("player_id", playerID).Msg("Player not found for draw")
		return
	}

	card, err := s.resolveDraw(ctx, gameID, player)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Draw failed")
		s.rt.SendToPlayer(playerID, realtime.EventGameError, realtime.Notice{Message: "Error drawing card"})
		return
	}

	s.log.Info().
		Str("card", card.Name).
		Str("category", string(card.Category)).
		Str("player", player.PlayerName).
		Msg("Card drawn")

	if err := s.disp.Dispatch(ctx, gameID, playerID, card); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Card dispatch failed")
		return
	}

	if err := s.store.SetTurnState(ctx, gameID, model.TurnStateCardDrawn); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist turn state failed")
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventTurnStateChanged, realtime.TurnStateChanged{
		TurnState: model.TurnStateCardDrawn,
		PlayerID:  playerID,
	})
}

// resolveDraw picks the card: a live forced-draw override constrains
// the draw to its candidate set and consumes one use; otherwise the
// draw is uniform over the whole catalog.
func (s *TurnService) resolveDraw(ctx context.Context, gameID string, player *model.Player) (*model.Card, error) {
	ids, count, err := s.store.ForcedDraw(ctx, gameID, player.PlayerID)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 || count <= 0 {
		return s.cards.RandomCard(ctx)
	}

	forcedID := ids[s.randIntN(len(ids))]
	card, err := s.cards.CardByID(ctx, forcedID)
	if err != nil {
		return nil, err
	}

	count--
	if count <= 0 {
		if err := s.store.ClearForcedDraw(ctx, gameID, player.PlayerID); err != nil {
			return nil, err
		}
	} else if err := s.store.SetForcedDrawCount(ctx, gameID, player.PlayerID, count); err != nil {
		return nil, err
	}
	return card, nil
}

// ChangeActivePlayer rotates the turn. A set double-turn flag keeps the
// same player active once, then clears itself; otherwise rotation is
// cyclic over the player sequence and never skips anyone.
func (s *TurnService) ChangeActivePlayer(ctx context.Context, gameID string) {
	defer s.locks.Lock(gameID)()

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}
	if len(state.Players) == 0 {
		// Rotating an empty session is an invariant violation upstream.
		s.log.Error().Str("game_id", gameID).Msg("Rotation requested with zero players")
		return
	}

	currentID := state.ActivePlayerID

	double, err := s.store.DoubleTurn(ctx, gameID, currentID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Read double-turn flag failed")
		return
	}
	if double {
		if err := s.store.ClearDoubleTurn(ctx, gameID, currentID); err != nil {
			s.log.Error().Err(err).Str("game_id", gameID).Msg("Clear double-turn flag failed")
			return
		}
		same := model.FindPlayer(state.Players, currentID)
		if same == nil {
			return
		}
		s.log.Info().Str("game_id", gameID).Str("player", same.PlayerName).Msg("Double turn, same player stays active")
		s.announceActive(ctx, gameID, state, same)
		return
	}

	idx := -1
	for i, p := range state.Players {
		if p.PlayerID == currentID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.log.Error().Str("game_id", gameID).Str("player_id", currentID).Msg("Active player missing from sequence")
		return
	}

	next := state.Players[(idx+1)%len(state.Players)]
	if err := s.store.SetActivePlayer(ctx, gameID, next.PlayerID); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist active player failed")
		return
	}
	s.log.Info().Str("game_id", gameID).Str("player", next.PlayerName).Msg("Active player changed")
	s.announceActive(ctx, gameID, state, next)
}

func (s *TurnService) announceActive(ctx context.Context, gameID string, state *model.GameState, player *model.Player) {
	if err := s.store.SetTurnState(ctx, gameID, model.TurnStateMovement); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist turn state failed")
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventActivePlayerChanged, realtime.ActivePlayerChanged{
		ActivePlayerID:   player.PlayerID,
		ActivePlayerName: player.PlayerName,
		TurnState:        model.TurnStateMovement,
	})
	s.rt.BroadcastToGame(gameID, realtime.EventPositionUpdate, realtime.PositionUpdate{
		PlayerID:    player.PlayerID,
		Position:    player.Position,
		Orientation: player.Orientation,
		Snippet:     state.Maze.LocalSnippet(player.Position.X, player.Position.Y, player.Orientation),
	})
}

// Teleport is the admin/debug position override. The coordinate comes
// in as a board label like "E6".
func (s *TurnService) Teleport(ctx context.Context, gameID, playerID, coordinate string) {
	x, y, err := model.ParseGridLabel(coordinate)
	if err != nil {
		s.log.Warn().Str("coordinate", coordinate).Msg("Bad teleport coordinate")
		return
	}

	defer s.locks.Lock(gameID)()

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}
	player := model.FindPlayer(state.Players, playerID)
	if player == nil {
		return
	}
	player.Position = model.Position{X: x, Y: y}
	if err := s.store.SavePlayers(ctx, gameID, state.Players); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist players failed")
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventPositionUpdate, realtime.PositionUpdate{
		PlayerID:    playerID,
		Position:    player.Position,
		Orientation: player.Orientation,
		Snippet:     state.Maze.LocalSnippet(player.Position.X, player.Position.Y, player.Orientation),
	})
}

func moveAllowed(move model.Move, valid model.ValidMoves) bool {
	switch move {
	case model.MoveForward:
		return valid.CanMoveForward
	case model.MoveLeft:
		return valid.CanMoveLeft
	case model.MoveRight:
		return valid.CanMoveRight
	}
	return false
}
