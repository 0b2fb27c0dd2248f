package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Hub tracks which connections belong to which game room and player.
// It is the broadcast channel of the engine: room-wide publish plus
// targeted unicast by logical player ID. Connections register lazily
// when the client sends joinRoom.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	players map[string]map[*Client]struct{}
	log     zerolog.Logger
}

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]struct{}),
		players: make(map[string]map[*Client]struct{}),
		log:     log.With().Str("component", "hub").Logger(),
	}
}

// Join registers a client under a game room and player ID. A client may
// re-join under different keys on the same connection; any previous
// registration is dropped first so a stale entry can never outlive the
// connection and receive a broadcast after Close.
func (h *Hub) Join(c *Client, gameID, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(c)
	c.gameID = gameID
	c.playerID = playerID

	if h.rooms[gameID] == nil {
		h.rooms[gameID] = make(map[*Client]struct{})
	}
	h.rooms[gameID][c] = struct{}{}

	if h.players[playerID] == nil {
		h.players[playerID] = make(map[*Client]struct{})
	}
	h.players[playerID][c] = struct{}{}

	h.log.Debug().Str("game_id", gameID).Str("player_id", playerID).Msg("Client joined room")
}

// Leave removes a client from its room and player registrations.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked drops the client's current registrations. Caller holds
// the write lock.
func (h *Hub) removeLocked(c *Client) {
	if clients, ok := h.rooms[c.gameID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, c.gameID)
		}
	}
	if clients, ok := h.players[c.playerID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.players, c.playerID)
		}
	}
}

// BroadcastToGame publishes an event to every connection in a room.
func (h *Hub) BroadcastToGame(gameID string, event Event, data interface{}) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		h.log.Error().Err(err).Str("event", string(event)).Msg("Encode broadcast failed")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[gameID] {
		c.enqueue(payload)
	}
}

// SendToPlayer publishes an event to a single participant's
// connection(s), addressed by logical player ID.
func (h *Hub) SendToPlayer(playerID string, event Event, data interface{}) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		h.log.Error().Err(err).Str("event", string(event)).Msg("Encode unicast failed")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.players[playerID] {
		c.enqueue(payload)
	}
}

// RoomSize returns the number of connections registered in a room.
func (h *Hub) RoomSize(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[gameID])
}
