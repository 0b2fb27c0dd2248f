package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/berrymaze/game-backend/internal/config"
	"github.com/berrymaze/game-backend/internal/handler"
	"github.com/berrymaze/game-backend/internal/middleware"
	"github.com/berrymaze/game-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Game *handler.GameHandler
	WS   *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for session creation and join (30 requests per minute
	// per IP); keeps a lobby-code brute force from hammering Redis.
	gameLimiter := middleware.NewRateLimiter(30, time.Minute)

	games := router.Group("/api/v1/games")
	games.Use(gameLimiter.Middleware())
	{
		games.POST("", handlers.Game.CreateGame)
		games.POST("/join", handlers.Game.JoinGame)
		games.GET("/:game_id/active-player", handlers.Game.GetActivePlayer)
	}

	// ─── WebSocket ─────────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/game", handlers.WS.GameStream)
	}

	return router
}
