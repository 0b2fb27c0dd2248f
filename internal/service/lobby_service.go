package service

import (
	"context"
	"math/rand/v2"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/berrymaze/game-backend/internal/model"
	"github.com/berrymaze/game-backend/internal/realtime"
)

const gameCodeLength = 6

const gameCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// LobbyService covers everything before and between turns: session
// creation and join, ready/tutorial tracking, avatars, game start and
// the berry leaderboard broadcast.
type LobbyService struct {
	store GameStore
	rt    Broadcaster
	locks *SessionLocks
	log   zerolog.Logger

	randIntN func(n int) int
}

// NewLobbyService creates a new LobbyService.
func NewLobbyService(store GameStore, rt Broadcaster, locks *SessionLocks, log zerolog.Logger) *LobbyService {
	return &LobbyService{
		store:    store,
		rt:       rt,
		locks:    locks,
		log:      log.With().Str("component", "lobby_service").Logger(),
		randIntN: rand.IntN,
	}
}

// CreateGame provisions a fresh session with the caller as host and
// returns the join code plus the host's player ID.
func (s *LobbyService) CreateGame(ctx context.Context, playerName string) (string, string, error) {
	var gameID string
	for {
		gameID = s.generateGameCode()
		exists, err := s.store.Exists(ctx, gameID)
		if err != nil {
			return "", "", err
		}
		if !exists {
			break
		}
	}

	host := s.newPlayer(playerName, true)
	state := &model.GameState{
		Players:        []*model.Player{host},
		ActivePlayerID: host.PlayerID,
		Status:         model.GameStatusWaiting,
		TurnState:      model.TurnStateMovement,
		Maze:           model.DefaultMaze(),
	}
	if err := s.store.Create(ctx, gameID, state); err != nil {
		return "", "", err
	}

	s.log.Info().
		Str("game_id", gameID).
		Str("host", playerName).
		Str("player_id", host.PlayerID).
		Msg("Game created")
	return gameID, host.PlayerID, nil
}

// JoinGame adds a player to an existing session and returns their ID.
func (s *LobbyService) JoinGame(ctx context.Context, gameID, playerName string) (string, error) {
	defer s.locks.Lock(gameID)()

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		return "", err
	}

	player := s.newPlayer(playerName, false)
	state.Players = append(state.Players, player)
	if err := s.store.SavePlayers(ctx, gameID, state.Players); err != nil {
		return "", err
	}

	s.log.Info().
		Str("game_id", gameID).
		Str("player", playerName).
		Str("player_id", player.PlayerID).
		Msg("Player joined")
	return player.PlayerID, nil
}

func (s *LobbyService) newPlayer(playerName string, isHost bool) *model.Player {
	spawn := model.CentralSpawns[s.randIntN(len(model.CentralSpawns))]
	ring := model.Orientations()
	return &model.Player{
		PlayerID:    uuid.NewString(),
		PlayerName:  playerName,
		IsHost:      isHost,
		Position:    spawn,
		Orientation: ring[s.randIntN(len(ring))],
	}
}

func (s *LobbyService) generateGameCode() string {
	code := make([]byte, gameCodeLength)
	for i := range code {
		code[i] = gameCodeAlphabet[s.randIntN(len(gameCodeAlphabet))]
	}
	return string(code)
}

// ActivePlayerID answers the REST active-player lookup.
func (s *LobbyService) ActivePlayerID(ctx context.Context, gameID string) (string, error) {
	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		return "", err
	}
	return state.ActivePlayerID, nil
}

// AnnounceRoom sends the current player roster to a room after someone
// joins it, then refreshes the leaderboard.
func (s *LobbyService) AnnounceRoom(ctx context.Context, gameID string) {
	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventCurrentPlayers, state.Players)
	s.BroadcastGameInfos(ctx, gameID)
}

// PlayerReady flips a player's ready flag. When the whole lobby is
// ready an allPlayersReady signal goes out.
func (s *LobbyService) PlayerReady(ctx context.Context, gameID, playerName string, isReady bool) {
	defer s.locks.Lock(gameID)()

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}

	// Lobby clients identify by display name before IDs circulate.
	var player *model.Player
	for _, p := range state.Players {
		if p.PlayerName == playerName {
			player = p
			break
		}
	}
	if player == nil {
		return
	}

	player.Ready = isReady
	if err := s.store.SavePlayers(ctx, gameID, state.Players); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist players failed")
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventReadyStatusUpdate, realtime.ReadyStatusUpdate{
		PlayerName: playerName,
		IsReady:    isReady,
	})

	allReady := true
	for _, p := range state.Players {
		if !p.Ready {
			allReady = false
			break
		}
	}
	if allReady {
		s.log.Info().Str("game_id", gameID).Msg("All players ready")
		s.rt.BroadcastToGame(gameID, realtime.EventAllPlayersReady, nil)
	}
}

// UpdateAvatar stores a player's avatar image and re-announces the
// roster.
func (s *LobbyService) UpdateAvatar(ctx context.Context, gameID, playerID, avatarBase64 string) {
	defer s.locks.Lock(gameID)()

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}
	player := model.FindPlayer(state.Players, playerID)
	if player == nil {
		s.log.Error().Str("game_id", gameID).Str("player_id", playerID).Msg("Player not found for avatar update")
		return
	}
	player.AvatarBase64 = avatarBase64
	if err := s.store.SavePlayers(ctx, gameID, state.Players); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist players failed")
		return
	}
	s.rt.BroadcastToGame(gameID, realtime.EventCurrentPlayers, state.Players)
}

// FinishTutorial marks a player done with the intro. Once every player
// is done the room gets the maze and roster to render the board.
func (s *LobbyService) FinishTutorial(ctx context.Context, gameID, playerID string) {
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
	player.TutorialDone = true
	if err := s.store.SavePlayers(ctx, gameID, state.Players); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist players failed")
		return
	}

	for _, p := range state.Players {
		if !p.TutorialDone {
			return
		}
	}

	activeName := ""
	if active := state.ActivePlayer(); active != nil {
		activeName = active.PlayerName
	}
	s.rt.BroadcastToGame(gameID, realtime.EventTutorialAllFinished, realtime.GameStart{
		Maze:             state.Maze,
		Players:          state.Players,
		ActivePlayerName: activeName,
	})
}

// StartGame activates the session with the first joined player active
// and ships the board to the room.
func (s *LobbyService) StartGame(ctx context.Context, gameID string) {
	defer s.locks.Lock(gameID)()

	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}
	if len(state.Players) == 0 {
		s.log.Error().Str("game_id", gameID).Msg("Start requested with zero players")
		return
	}

	first := state.Players[0]
	if err := s.store.SetActivePlayer(ctx, gameID, first.PlayerID); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist active player failed")
		return
	}
	if err := s.store.SetStatus(ctx, gameID, model.GameStatusActive); err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Persist status failed")
		return
	}

	s.log.Info().Str("game_id", gameID).Str("player", first.PlayerName).Msg("Game started")
	s.rt.BroadcastToGame(gameID, realtime.EventStartGame, realtime.GameStart{
		Maze:             state.Maze,
		Players:          state.Players,
		ActivePlayerName: first.PlayerName,
	})
	s.broadcastGameInfosFor(gameID, state.Players, first.PlayerName)
}

// ActivePlayerName answers the getActivePlayer query for one client.
func (s *LobbyService) ActivePlayerName(ctx context.Context, gameID, requesterID string) {
	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.rt.SendToPlayer(requesterID, realtime.EventActivePlayer, realtime.ActivePlayer{})
		return
	}
	name := ""
	if active := state.ActivePlayer(); active != nil {
		name = active.PlayerName
	}
	s.rt.SendToPlayer(requesterID, realtime.EventActivePlayer, realtime.ActivePlayer{ActivePlayerName: name})
}

// BroadcastGameInfos ships the berry leaderboard to the room: players
// sorted by berries descending, rank attached.
func (s *LobbyService) BroadcastGameInfos(ctx context.Context, gameID string) {
	state, err := s.store.Game(ctx, gameID)
	if err != nil {
		s.log.Error().Err(err).Str("game_id", gameID).Msg("Load session failed")
		return
	}
	activeName := ""
	if active := state.ActivePlayer(); active != nil {
		activeName = active.PlayerName
	}
	s.broadcastGameInfosFor(gameID, state.Players, activeName)
}

func (s *LobbyService) broadcastGameInfosFor(gameID string, players []*model.Player, activeName string) {
	sorted := make([]*model.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Berries > sorted[j].Berries
	})

	infos := make([]realtime.PlayerInfo, len(sorted))
	for i, p := range sorted {
		inventory := p.Inventory
		if inventory == nil {
			inventory = []model.Item{}
		}
		infos[i] = realtime.PlayerInfo{
			PlayerID:     p.PlayerID,
			PlayerName:   p.PlayerName,
			Berries:      p.Berries,
			Rank:         i + 1,
			AvatarBase64: p.AvatarBase64,
			Inventory:    inventory,
		}
	}
	s.rt.BroadcastToGame(gameID, realtime.EventGameInfos, realtime.GameInfos{
		Players:          infos,
		ActivePlayerName: activeName,
	})
}
