package model

// Player is one participant in a game session. Players are mutated in
// place by the turn manager and card handlers and are never removed
// mid-session.
type Player struct {
	PlayerID     string      `json:"playerId"`
	PlayerName   string      `json:"playerName"`
	Ready        bool        `json:"ready"`
	IsHost       bool        `json:"isHost"`
	Position     Position    `json:"position"`
	Orientation  Orientation `json:"orientation"`
	Berries      int         `json:"berries"`
	TutorialDone bool        `json:"tutorialDone"`
	Inventory    []Item      `json:"inventory,omitempty"`
	AvatarBase64 string      `json:"avatarBase64"`
}

// Item is an object card held in a player's inventory.
type Item struct {
	ItemID      int    `json:"itemId"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// FindPlayer returns the player with the given ID, or nil.
func FindPlayer(players []*Player, playerID string) *Player {
	for _, p := range players {
		if p.PlayerID == playerID {
			return p
		}
	}
	return nil
}
