package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/berrymaze/game-backend/internal/model"
	"github.com/berrymaze/game-backend/internal/realtime"
	"github.com/berrymaze/game-backend/internal/service"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler owns the game socket: one connection per client, every game
// event multiplexed over it as {event, data} frames.
type WSHandler struct {
	hub          *realtime.Hub
	lobbyService *service.LobbyService
	turnService  *service.TurnService
	cardService  *service.CardService
	quizService  *service.QuizService
	log          zerolog.Logger
	upgrader     websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(
	hub *realtime.Hub,
	lobbyService *service.LobbyService,
	turnService *service.TurnService,
	cardService *service.CardService,
	quizService *service.QuizService,
	log zerolog.Logger,
	allowedOrigins []string,
) *WSHandler {
	return &WSHandler{
		hub:          hub,
		lobbyService: lobbyService,
		turnService:  turnService,
		cardService:  cardService,
		quizService:  quizService,
		log:          log.With().Str("component", "ws_handler").Logger(),
		upgrader:     buildUpgrader(allowedOrigins),
	}
}

// GameStream godoc
// WS /ws/v1/game
// Upgrades to WebSocket and serves the full in-game event protocol.
func (h *WSHandler) GameStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := realtime.NewClient(conn)
	go client.WritePump()
	defer func() {
		h.hub.Leave(client)
		client.Close()
	}()

	h.log.Info().Msg("Client connected")

	for {
		var msg realtime.Inbound
		if err := client.ReadInbound(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Msg("Unexpected close")
			} else {
				h.log.Debug().Msg("Connection closed")
			}
			return
		}
		h.dispatch(client, &msg)
	}
}

// dispatch routes one inbound frame. A handler panic kills neither the
// connection nor the process.
func (h *WSHandler) dispatch(client *realtime.Client, msg *realtime.Inbound) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Str("event", msg.Event).Msg("Event handler panicked")
		}
	}()

	ctx := context.Background()

	switch msg.Event {
	case "joinRoom":
		var p realtime.JoinRoomPayload
		if !h.decode(msg, &p) {
			return
		}
		h.hub.Join(client, p.GameID, p.PlayerID)
		h.lobbyService.AnnounceRoom(ctx, p.GameID)

	case "requestGameInfos":
		var p realtime.GamePayload
		if !h.decode(msg, &p) {
			return
		}
		h.lobbyService.BroadcastGameInfos(ctx, p.GameID)

	case "playerReady":
		var p realtime.ReadyPayload
		if !h.decode(msg, &p) {
			return
		}
		h.lobbyService.PlayerReady(ctx, p.GameID, p.PlayerName, p.IsReady)
		h.lobbyService.BroadcastGameInfos(ctx, p.GameID)

	case "updateAvatar":
		var p realtime.AvatarPayload
		if !h.decode(msg, &p) {
			return
		}
		h.lobbyService.UpdateAvatar(ctx, p.GameID, p.PlayerID, p.AvatarBase64)
		h.lobbyService.BroadcastGameInfos(ctx, p.GameID)

	case "finishTutorial":
		var p realtime.PlayerPayload
		if !h.decode(msg, &p) {
			return
		}
		h.lobbyService.FinishTutorial(ctx, p.GameID, p.PlayerID)

	case "startGame":
		var p realtime.GamePayload
		if !h.decode(msg, &p) {
			return
		}
		h.lobbyService.StartGame(ctx, p.GameID)

	case "getActivePlayer":
		var p realtime.GamePayload
		if !h.decode(msg, &p) {
			return
		}
		h.lobbyService.ActivePlayerName(ctx, p.GameID, client.PlayerID())

	case "endTurn":
		var p realtime.GamePayload
		if !h.decode(msg, &p) {
			return
		}
		h.turnService.ChangeActivePlayer(ctx, p.GameID)
		h.lobbyService.BroadcastGameInfos(ctx, p.GameID)

	case "playerMove":
		var p realtime.MovePayload
		if !h.decode(msg, &p) {
			return
		}
		h.turnService.HandleMove(ctx, p.GameID, p.PlayerID, model.Move(p.Move))

	case "getValidMoves":
		var p realtime.PlayerPayload
		if !h.decode(msg, &p) {
			return
		}
		h.turnService.GetValidMoves(ctx, p.GameID, p.PlayerID)

	case "playerDrawCard":
		var p realtime.PlayerPayload
		if !h.decode(msg, &p) {
			return
		}
		h.turnService.HandleDrawCard(ctx, p.GameID, p.PlayerID)
		h.lobbyService.BroadcastGameInfos(ctx, p.GameID)

	case "teleportPlayer":
		var p realtime.TeleportPayload
		if !h.decode(msg, &p) {
			return
		}
		h.turnService.Teleport(ctx, p.GameID, p.PlayerID, p.Coordinate)

	case "startQuiz":
		var p realtime.StartQuizPayload
		if !h.decode(msg, &p) {
			return
		}
		h.quizService.StartQuiz(ctx, p.GameID, p.PlayerID, p.ChosenTheme, p.ChosenDifficulty)
		h.lobbyService.BroadcastGameInfos(ctx, p.GameID)

	case "quizAnswer":
		var p realtime.QuizAnswerPayload
		if !h.decode(msg, &p) {
			return
		}
		h.quizService.HandleAnswer(ctx, p.GameID, p.PlayerID, p.Answer)
		h.lobbyService.BroadcastGameInfos(ctx, p.GameID)

	case "startBetting":
		var p realtime.PlayerPayload
		if !h.decode(msg, &p) {
			return
		}
		h.cardService.StartBetting(ctx, p.GameID, p.PlayerID)
		h.lobbyService.BroadcastGameInfos(ctx, p.GameID)

	case "placeBet":
		var p realtime.BetPayload
		if !h.decode(msg, &p) {
			return
		}
		h.cardService.HandleBet(ctx, p.GameID, p.PlayerID, p.Bet)
		h.lobbyService.BroadcastGameInfos(ctx, p.GameID)

	case "placeChallengeVote":
		var p realtime.VotePayload
		if !h.decode(msg, &p) {
			return
		}
		h.cardService.HandleChallengeVote(ctx, p.GameID, p.PlayerID, p.Vote)
		h.lobbyService.BroadcastGameInfos(ctx, p.GameID)

	case "pickUpObject":
		var p realtime.PlayerPayload
		if !h.decode(msg, &p) {
			return
		}
		h.cardService.PickUpObject(ctx, p.GameID, p.PlayerID)
		h.lobbyService.BroadcastGameInfos(ctx, p.GameID)

	case "discardObject":
		var p realtime.ItemPayload
		if !h.decode(msg, &p) {
			return
		}
		h.cardService.DiscardObject(ctx, p.GameID, p.PlayerID, p.ItemID)
		h.lobbyService.BroadcastGameInfos(ctx, p.GameID)

	case "useObject":
		var p realtime.ItemPayload
		if !h.decode(msg, &p) {
			return
		}
		h.cardService.UseObject(ctx, p.GameID, p.PlayerID, p.ItemID)
		h.lobbyService.BroadcastGameInfos(ctx, p.GameID)

	default:
		h.log.Warn().Str("event", msg.Event).Msg("Unknown event")
	}
}

func (h *WSHandler) decode(msg *realtime.Inbound, dst interface{}) bool {
	if err := json.Unmarshal(msg.Data, dst); err != nil {
		h.log.Warn().Err(err).Str("event", msg.Event).Msg("Bad event payload")
		return false
	}
	return true
}
