package model

import "errors"

var (
	// ErrGameNotFound is returned when a session code resolves to nothing.
	ErrGameNotFound = errors.New("game not found")
	// ErrPlayerNotFound is returned when a playerId is absent from a
	// session's player list.
	ErrPlayerNotFound = errors.New("player not found")
)
