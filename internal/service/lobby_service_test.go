package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/berrymaze/game-backend/internal/model"
	"github.com/berrymaze/game-backend/internal/realtime"
)

func newLobbyHarness() (*LobbyService, *fakeStore, *fakeBroadcaster) {
	store := newFakeStore()
	rt := &fakeBroadcaster{}
	svc := NewLobbyService(store, rt, NewSessionLocks(), zerolog.Nop())
	return svc, store, rt
}

func TestCreateGameProvisionsSession(t *testing.T) {
	svc, store, _ := newLobbyHarness()
	ctx := context.Background()

	gameID, playerID, err := svc.CreateGame(ctx, "Ariane")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(gameID) != gameCodeLength {
		t.Errorf("game code %q, want %d chars", gameID, gameCodeLength)
	}
	for _, r := range gameID {
		if !strings.ContainsRune(gameCodeAlphabet, r) {
			t.Errorf("game code contains %q outside the alphabet", r)
		}
	}

	state, err := store.Game(ctx, gameID)
	if err != nil {
		t.Fatalf("load created game: %v", err)
	}
	if state.Status != model.GameStatusWaiting {
		t.Errorf("status = %s, want waiting", state.Status)
	}
	if len(state.Players) != 1 {
		t.Fatalf("players = %d, want 1", len(state.Players))
	}
	host := state.Players[0]
	if host.PlayerID != playerID || host.PlayerName != "Ariane" || !host.IsHost {
		t.Errorf("host = %+v", host)
	}
	if state.ActivePlayerID != playerID {
		t.Errorf("active = %s, want host", state.ActivePlayerID)
	}

	spawnOK := false
	for _, p := range model.CentralSpawns {
		if p == host.Position {
			spawnOK = true
			break
		}
	}
	if !spawnOK {
		t.Errorf("host spawned at %+v, not a central spawn", host.Position)
	}
	if !state.Maze.IsAccessible(host.Position.X, host.Position.Y) {
		t.Errorf("host spawned on a blocked cell %+v", host.Position)
	}
}

func TestCreateGameRetriesTakenCode(t *testing.T) {
	svc, store, _ := newLobbyHarness()
	ctx := context.Background()

	// Force the first generated code to collide with a live session.
	rolls := 0
	svc.randIntN = func(n int) int {
		rolls++
		if rolls <= gameCodeLength {
			return 0 // first code is AAAAAA
		}
		return 1 % n
	}
	store.Create(ctx, "AAAAAA", &model.GameState{Players: []*model.Player{newPlayer("x", "X", 2, 2, model.North)}})

	gameID, _, err := svc.CreateGame(ctx, "Ariane")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if gameID == "AAAAAA" {
		t.Error("create reused a taken game code")
	}
}

func TestJoinGameUnknownCode(t *testing.T) {
	svc, _, _ := newLobbyHarness()

	_, err := svc.JoinGame(context.Background(), "NOPE42", "Basile")
	if !errors.Is(err, model.ErrGameNotFound) {
		t.Fatalf("err = %v, want ErrGameNotFound", err)
	}
}

func TestJoinGameAppendsPlayer(t *testing.T) {
	svc, store, _ := newLobbyHarness()
	ctx := context.Background()
	gameID, hostID, _ := svc.CreateGame(ctx, "Ariane")

	playerID, err := svc.JoinGame(ctx, gameID, "Basile")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if playerID == hostID {
		t.Error("joiner got the host's ID")
	}

	state, _ := store.Game(ctx, gameID)
	if len(state.Players) != 2 {
		t.Fatalf("players = %d, want 2", len(state.Players))
	}
	joined := state.Players[1]
	if joined.PlayerName != "Basile" || joined.IsHost {
		t.Errorf("joined player = %+v", joined)
	}
}

func TestPlayerReadySignalsWhenAllReady(t *testing.T) {
	svc, _, rt := newLobbyHarness()
	ctx := context.Background()
	gameID, _, _ := svc.CreateGame(ctx, "Ariane")
	svc.JoinGame(ctx, gameID, "Basile")

	svc.PlayerReady(ctx, gameID, "Ariane", true)

	update := rt.last(realtime.EventReadyStatusUpdate)
	if update == nil {
		t.Fatal("no readyStatusUpdate broadcast")
	}
	payload := update.Data.(realtime.ReadyStatusUpdate)
	if payload.PlayerName != "Ariane" || !payload.IsReady {
		t.Errorf("readyStatusUpdate = %+v", payload)
	}
	if rt.last(realtime.EventAllPlayersReady) != nil {
		t.Fatal("allPlayersReady fired with one player still not ready")
	}

	svc.PlayerReady(ctx, gameID, "Basile", true)
	if rt.last(realtime.EventAllPlayersReady) == nil {
		t.Fatal("allPlayersReady missing once everyone is ready")
	}
}

func TestPlayerReadyUnknownNameIgnored(t *testing.T) {
	svc, _, rt := newLobbyHarness()
	ctx := context.Background()
	gameID, _, _ := svc.CreateGame(ctx, "Ariane")

	svc.PlayerReady(ctx, gameID, "Fantôme", true)

	if rt.last(realtime.EventReadyStatusUpdate) != nil {
		t.Error("readyStatusUpdate broadcast for unknown name")
	}
}

func TestFinishTutorialBroadcastsWhenAllDone(t *testing.T) {
	svc, _, rt := newLobbyHarness()
	ctx := context.Background()
	gameID, hostID, _ := svc.CreateGame(ctx, "Ariane")
	otherID, _ := svc.JoinGame(ctx, gameID, "Basile")

	svc.FinishTutorial(ctx, gameID, hostID)
	if rt.last(realtime.EventTutorialAllFinished) != nil {
		t.Fatal("tutorialAllFinished fired before everyone finished")
	}

	svc.FinishTutorial(ctx, gameID, otherID)
	e := rt.last(realtime.EventTutorialAllFinished)
	if e == nil {
		t.Fatal("no tutorialAllFinished broadcast")
	}
	payload := e.Data.(realtime.GameStart)
	if len(payload.Players) != 2 || payload.ActivePlayerName != "Ariane" {
		t.Errorf("tutorialAllFinished = %d players, active %q", len(payload.Players), payload.ActivePlayerName)
	}
	if len(payload.Maze) == 0 {
		t.Error("tutorialAllFinished missing the maze")
	}
}

func TestStartGameActivatesFirstPlayer(t *testing.T) {
	svc, store, rt := newLobbyHarness()
	ctx := context.Background()
	gameID, hostID, _ := svc.CreateGame(ctx, "Ariane")
	svc.JoinGame(ctx, gameID, "Basile")

	svc.StartGame(ctx, gameID)

	state, _ := store.Game(ctx, gameID)
	if state.Status != model.GameStatusActive {
		t.Errorf("status = %s, want active", state.Status)
	}
	if state.ActivePlayerID != hostID {
		t.Errorf("active = %s, want first player %s", state.ActivePlayerID, hostID)
	}

	e := rt.last(realtime.EventStartGame)
	if e == nil {
		t.Fatal("no startGame broadcast")
	}
	payload := e.Data.(realtime.GameStart)
	if payload.ActivePlayerName != "Ariane" || len(payload.Players) != 2 {
		t.Errorf("startGame = active %q, %d players", payload.ActivePlayerName, len(payload.Players))
	}
	if rt.last(realtime.EventGameInfos) == nil {
		t.Error("startGame must be followed by a gameInfos refresh")
	}
}

func TestBroadcastGameInfosRanksByBerries(t *testing.T) {
	svc, store, rt := newLobbyHarness()
	ctx := context.Background()

	p1 := newPlayer("p1", "Ariane", 2, 2, model.North)
	p1.Berries = 1
	p2 := newPlayer("p2", "Basile", 2, 3, model.North)
	p2.Berries = 4
	p3 := newPlayer("p3", "Chloé", 3, 2, model.North)
	p3.Berries = 2
	store.Create(ctx, "G1", &model.GameState{
		Players:        []*model.Player{p1, p2, p3},
		ActivePlayerID: "p1",
		Maze:           openMaze(5, 5),
	})

	svc.BroadcastGameInfos(ctx, "G1")

	e := rt.last(realtime.EventGameInfos)
	if e == nil {
		t.Fatal("no gameInfos broadcast")
	}
	infos := e.Data.(realtime.GameInfos)
	if infos.ActivePlayerName != "Ariane" {
		t.Errorf("active = %q", infos.ActivePlayerName)
	}
	wantOrder := []string{"Basile", "Chloé", "Ariane"}
	for i, name := range wantOrder {
		if infos.Players[i].PlayerName != name || infos.Players[i].Rank != i+1 {
			t.Errorf("rank %d = %s (%d), want %s", i+1, infos.Players[i].PlayerName, infos.Players[i].Rank, name)
		}
	}
	for _, p := range infos.Players {
		if p.Inventory == nil {
			t.Errorf("player %s has nil inventory in gameInfos", p.PlayerName)
		}
	}
}

func TestActivePlayerNameUnicast(t *testing.T) {
	svc, store, rt := newLobbyHarness()
	ctx := context.Background()
	store.Create(ctx, "G1", &model.GameState{
		Players:        []*model.Player{newPlayer("p1", "Ariane", 2, 2, model.North)},
		ActivePlayerID: "p1",
		Maze:           openMaze(3, 3),
	})

	svc.ActivePlayerName(ctx, "G1", "p1")

	e := rt.last(realtime.EventActivePlayer)
	if e == nil || e.Player != "p1" {
		t.Fatalf("expected unicast to p1, got %+v", e)
	}
	if e.Data.(realtime.ActivePlayer).ActivePlayerName != "Ariane" {
		t.Errorf("activePlayer = %+v", e.Data)
	}
}
