package realtime

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func recvEnvelope(t *testing.T, c *Client) *Envelope {
	t.Helper()
	select {
	case payload := <-c.send:
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		return &env
	default:
		return nil
	}
}

func TestBroadcastToGameReachesRoomOnly(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	a := NewClient(nil)
	b := NewClient(nil)
	other := NewClient(nil)
	hub.Join(a, "ROOM01", "p1")
	hub.Join(b, "ROOM01", "p2")
	hub.Join(other, "ROOM02", "p3")

	hub.BroadcastToGame("ROOM01", EventGameError, Notice{Message: "oops"})

	for _, c := range []*Client{a, b} {
		env := recvEnvelope(t, c)
		if env == nil {
			t.Fatal("room member missed the broadcast")
		}
		if env.Event != EventGameError {
			t.Errorf("event = %s", env.Event)
		}
	}
	if recvEnvelope(t, other) != nil {
		t.Error("broadcast leaked into another room")
	}
}

func TestSendToPlayerTargetsOneConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	a := NewClient(nil)
	b := NewClient(nil)
	hub.Join(a, "ROOM01", "p1")
	hub.Join(b, "ROOM01", "p2")

	hub.SendToPlayer("p2", EventActivePlayer, ActivePlayer{ActivePlayerName: "Basile"})

	if recvEnvelope(t, a) != nil {
		t.Error("unicast reached the wrong player")
	}
	env := recvEnvelope(t, b)
	if env == nil {
		t.Fatal("unicast never arrived")
	}
	var payload ActivePlayer
	if err := json.Unmarshal(mustMarshal(t, env.Data), &payload); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if payload.ActivePlayerName != "Basile" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestLeaveEmptiesRoom(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	a := NewClient(nil)
	b := NewClient(nil)
	hub.Join(a, "ROOM01", "p1")
	hub.Join(b, "ROOM01", "p2")
	if hub.RoomSize("ROOM01") != 2 {
		t.Fatalf("room size = %d, want 2", hub.RoomSize("ROOM01"))
	}

	hub.Leave(a)
	if hub.RoomSize("ROOM01") != 1 {
		t.Errorf("room size after one leave = %d", hub.RoomSize("ROOM01"))
	}
	hub.BroadcastToGame("ROOM01", EventAllPlayersReady, nil)
	if recvEnvelope(t, a) != nil {
		t.Error("departed client still received broadcasts")
	}

	hub.Leave(b)
	if hub.RoomSize("ROOM01") != 0 {
		t.Errorf("room size after all leave = %d", hub.RoomSize("ROOM01"))
	}
}

func TestRejoinDropsOldRegistration(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	c := NewClient(nil)

	// A client may switch rooms on the same connection, e.g. leaving one
	// lobby for another. The first registration must go away with it.
	hub.Join(c, "ROOMA1", "p1")
	hub.Join(c, "ROOMB1", "p1")

	if hub.RoomSize("ROOMA1") != 0 {
		t.Fatalf("old room size = %d after re-join, want 0", hub.RoomSize("ROOMA1"))
	}
	if hub.RoomSize("ROOMB1") != 1 {
		t.Fatalf("new room size = %d, want 1", hub.RoomSize("ROOMB1"))
	}

	hub.Leave(c)
	c.Close()

	// With the stale entry gone, a broadcast to the old room must not
	// reach the closed connection.
	hub.BroadcastToGame("ROOMA1", EventAllPlayersReady, nil)
	hub.SendToPlayer("p1", EventAllPlayersReady, nil)
}

func TestSlowConsumerDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	c := NewClient(nil)
	hub.Join(c, "ROOM01", "p1")

	// Nothing drains the send channel; overflow must not block.
	for i := 0; i < sendBufferSize+10; i++ {
		hub.BroadcastToGame("ROOM01", EventGameInfos, GameInfos{})
	}
	if got := len(c.send); got != sendBufferSize {
		t.Errorf("buffered frames = %d, want %d", got, sendBufferSize)
	}
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}
