package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/berrymaze/game-backend/internal/model"
	"github.com/berrymaze/game-backend/internal/realtime"
)

// fakeStore is an in-memory GameStore + ResultQueue. Reads hand out
// deep copies, like the real store decoding from Redis, so tests catch
// lost updates the same way production would.
type fakeStore struct {
	mu sync.Mutex

	games        map[string]*model.GameState
	currentCards map[string]*model.Card
	quizStates   map[string][]byte
	challenges   map[string][]byte

	forcedIDs    map[string][]int
	forcedCounts map[string]int
	doubleTurns  map[string]bool

	queued []model.QuizResultRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		games:        make(map[string]*model.GameState),
		currentCards: make(map[string]*model.Card),
		quizStates:   make(map[string][]byte),
		challenges:   make(map[string][]byte),
		forcedIDs:    make(map[string][]int),
		forcedCounts: make(map[string]int),
		doubleTurns:  make(map[string]bool),
	}
}

func clonePlayers(ps []*model.Player) []*model.Player {
	out := make([]*model.Player, len(ps))
	for i, p := range ps {
		cp := *p
		cp.Inventory = append([]model.Item(nil), p.Inventory...)
		out[i] = &cp
	}
	return out
}

func (f *fakeStore) Exists(_ context.Context, gameID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.games[gameID]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, gameID string, state *model.GameState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *state
	cp.Players = clonePlayers(state.Players)
	f.games[gameID] = &cp
	return nil
}

func (f *fakeStore) Game(_ context.Context, gameID string) (*model.GameState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.games[gameID]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	cp := *state
	cp.Players = clonePlayers(state.Players)
	return &cp, nil
}

func (f *fakeStore) SavePlayers(_ context.Context, gameID string, players []*model.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games[gameID].Players = clonePlayers(players)
	return nil
}

func (f *fakeStore) SetActivePlayer(_ context.Context, gameID, playerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games[gameID].ActivePlayerID = playerID
	return nil
}

func (f *fakeStore) SetStatus(_ context.Context, gameID string, status model.GameStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games[gameID].Status = status
	return nil
}

func (f *fakeStore) SetTurnState(_ context.Context, gameID string, state model.TurnState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games[gameID].TurnState = state
	return nil
}

func (f *fakeStore) SetCurrentCard(_ context.Context, gameID string, card *model.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *card
	f.currentCards[gameID] = &cp
	return nil
}

func (f *fakeStore) CurrentCard(_ context.Context, gameID string) (*model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.currentCards[gameID]
	if !ok {
		return nil, nil
	}
	cp := *card
	return &cp, nil
}

func (f *fakeStore) QuizState(_ context.Context, gameID string) (*model.QuizState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.quizStates[gameID]
	if !ok {
		return nil, nil
	}
	var qs model.QuizState
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, err
	}
	return &qs, nil
}

func (f *fakeStore) SaveQuizState(_ context.Context, gameID string, qs *model.QuizState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(qs)
	if err != nil {
		return err
	}
	f.quizStates[gameID] = raw
	return nil
}

func (f *fakeStore) ChallengeState(_ context.Context, gameID string) (*model.ChallengeState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.challenges[gameID]
	if !ok {
		return nil, nil
	}
	var cs model.ChallengeState
	if err := json.Unmarshal(raw, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (f *fakeStore) SaveChallengeState(_ context.Context, gameID string, cs *model.ChallengeState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	f.challenges[gameID] = raw
	return nil
}

func overrideKey(gameID, playerID string) string { return gameID + ":" + playerID }

func (f *fakeStore) ForcedDraw(_ context.Context, gameID, playerID string) ([]int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := overrideKey(gameID, playerID)
	ids := append([]int(nil), f.forcedIDs[key]...)
	return ids, f.forcedCounts[key], nil
}

func (f *fakeStore) SetForcedDraw(_ context.Context, gameID, playerID string, cardIDs []int, uses int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := overrideKey(gameID, playerID)
	f.forcedIDs[key] = append([]int(nil), cardIDs...)
	f.forcedCounts[key] = uses
	return nil
}

func (f *fakeStore) SetForcedDrawCount(_ context.Context, gameID, playerID string, uses int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forcedCounts[overrideKey(gameID, playerID)] = uses
	return nil
}

func (f *fakeStore) ClearForcedDraw(_ context.Context, gameID, playerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := overrideKey(gameID, playerID)
	delete(f.forcedIDs, key)
	delete(f.forcedCounts, key)
	return nil
}

func (f *fakeStore) DoubleTurn(_ context.Context, gameID, playerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doubleTurns[overrideKey(gameID, playerID)], nil
}

func (f *fakeStore) SetDoubleTurn(_ context.Context, gameID, playerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doubleTurns[overrideKey(gameID, playerID)] = true
	return nil
}

func (f *fakeStore) ClearDoubleTurn(_ context.Context, gameID, playerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.doubleTurns, overrideKey(gameID, playerID))
	return nil
}

func (f *fakeStore) EnqueueQuizResult(_ context.Context, rec model.QuizResultRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, rec)
	return nil
}

func (f *fakeStore) queuedResults() []model.QuizResultRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.QuizResultRecord(nil), f.queued...)
}

// sentEvent is one captured publish.
type sentEvent struct {
	Room   string
	Player string
	Event  realtime.Event
	Data   interface{}
}

// fakeBroadcaster records every publish instead of shipping frames.
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
}

func (b *fakeBroadcaster) BroadcastToGame(gameID string, event realtime.Event, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sentEvent{Room: gameID, Event: event, Data: data})
}

func (b *fakeBroadcaster) SendToPlayer(playerID string, event realtime.Event, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sentEvent{Player: playerID, Event: event, Data: data})
}

func (b *fakeBroadcaster) eventsOf(event realtime.Event) []sentEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []sentEvent
	for _, e := range b.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (b *fakeBroadcaster) last(event realtime.Event) *sentEvent {
	matches := b.eventsOf(event)
	if len(matches) == 0 {
		return nil
	}
	return &matches[len(matches)-1]
}

// fakeCards is a fixed catalog CardSource. RandomCard walks randomOrder
// front to back, then repeats the last entry.
type fakeCards struct {
	mu          sync.Mutex
	catalog     map[int]*model.Card
	randomOrder []int
}

func newFakeCards(cards ...*model.Card) *fakeCards {
	f := &fakeCards{catalog: make(map[int]*model.Card)}
	for _, c := range cards {
		f.catalog[c.ID] = c
		f.randomOrder = append(f.randomOrder, c.ID)
	}
	return f
}

func (f *fakeCards) RandomCard(_ context.Context) (*model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.randomOrder[0]
	if len(f.randomOrder) > 1 {
		f.randomOrder = f.randomOrder[1:]
	}
	cp := *f.catalog[id]
	return &cp, nil
}

func (f *fakeCards) CardByID(_ context.Context, id int) (*model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.catalog[id]
	if !ok {
		return nil, errors.New("card not in catalog")
	}
	cp := *card
	return &cp, nil
}

// fakeQuestions returns a canned question list and records the request.
type fakeQuestions struct {
	questions  []model.Question
	err        error
	theme      string
	difficulty string
}

func (f *fakeQuestions) ThreeQuestions(_ context.Context, theme, difficultyChoice string) ([]model.Question, error) {
	f.theme = theme
	f.difficulty = difficultyChoice
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Question(nil), f.questions...), nil
}

// scheduler captures deferred callbacks so tests control pacing.
type scheduler struct {
	mu  sync.Mutex
	fns []func()
}

func (s *scheduler) schedule(_ time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, fn)
}

// runAll drains the pending callbacks, including ones they enqueue.
func (s *scheduler) runAll() {
	for {
		s.mu.Lock()
		if len(s.fns) == 0 {
			s.mu.Unlock()
			return
		}
		fn := s.fns[0]
		s.fns = s.fns[1:]
		s.mu.Unlock()
		fn()
	}
}

func (s *scheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}

// openMaze builds a fully open grid.
func openMaze(w, h int) model.Maze {
	m := make(model.Maze, h)
	for y := range m {
		m[y] = make([]model.Cell, w)
		for x := range m[y] {
			m[y][x].Accessible = true
		}
	}
	return m
}

func newPlayer(id, name string, x, y int, o model.Orientation) *model.Player {
	return &model.Player{
		PlayerID:    id,
		PlayerName:  name,
		Position:    model.Position{X: x, Y: y},
		Orientation: o,
	}
}
