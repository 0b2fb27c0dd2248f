package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// GameKey returns the Redis hash key holding a game session's fields.
func (r *CacheKeyStruct) GameKey(gameID string) string {
	return fmt.Sprintf("game:%s", gameID)
}

// ForcedDrawKey returns the key holding a player's forced-draw candidate card IDs.
func (r *CacheKeyStruct) ForcedDrawKey(gameID, playerID string) string {
	return fmt.Sprintf("forcedDraw:%s:%s", gameID, playerID)
}

// ForcedDrawCountKey returns the key holding a player's remaining forced draws.
func (r *CacheKeyStruct) ForcedDrawCountKey(gameID, playerID string) string {
	return fmt.Sprintf("forcedDrawCount:%s:%s", gameID, playerID)
}

// DoubleTurnKey returns the key flagging a player's pending extra turn.
func (r *CacheKeyStruct) DoubleTurnKey(gameID, playerID string) string {
	return fmt.Sprintf("doubleTurn:%s:%s", gameID, playerID)
}

var CacheKey = NewCacheKeyStruct()
