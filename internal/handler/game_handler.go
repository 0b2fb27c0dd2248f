package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/berrymaze/game-backend/internal/model"
	"github.com/berrymaze/game-backend/internal/response"
	"github.com/berrymaze/game-backend/internal/service"
	"github.com/berrymaze/game-backend/internal/validator"
)

// GameHandler handles the REST session endpoints: create, join and the
// active-player lookup. Everything in-game happens over the socket.
type GameHandler struct {
	lobbyService *service.LobbyService
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(lobbyService *service.LobbyService) *GameHandler {
	return &GameHandler{lobbyService: lobbyService}
}

// CreateGameRequest is the payload for creating a game.
type CreateGameRequest struct {
	PlayerName string `json:"playerName" binding:"required,min=1,max=32"`
}

// CreateGame godoc
// POST /api/v1/games
// Creates a new game session with the caller as host.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	gameID, playerID, err := h.lobbyService.CreateGame(c.Request.Context(), req.PlayerName)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"gameId":   gameID,
		"playerId": playerID,
	})
}

// JoinGameRequest is the payload for joining a game.
type JoinGameRequest struct {
	GameID     string `json:"gameId" binding:"required,len=6"`
	PlayerName string `json:"playerName" binding:"required,min=1,max=32"`
}

// JoinGame godoc
// POST /api/v1/games/join
// Adds a player to an existing game session.
func (h *GameHandler) JoinGame(c *gin.Context) {
	var req JoinGameRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	playerID, err := h.lobbyService.JoinGame(c.Request.Context(), req.GameID, req.PlayerName)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrGameNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"playerId": playerID})
}

// GetActivePlayer godoc
// GET /api/v1/games/:game_id/active-player
// Returns the session's current active player ID.
func (h *GameHandler) GetActivePlayer(c *gin.Context) {
	gameID := c.Param("game_id")

	activePlayerID, err := h.lobbyService.ActivePlayerID(c.Request.Context(), gameID)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrGameNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"activePlayerId": activePlayerID})
}
