package http

import (
	"time"

	"truco_server/internal/http/handlers"
	"truco_server/internal/http/middleware"
	"truco_server/internal/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes вешает REST и websocket маршруты
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, hub *ws.Hub) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.POST("/auth/guest", middleware.RateLimit(30, time.Minute), h.GuestAuth)
		api.GET("/rooms", middleware.RateLimit(120, time.Minute), h.ListRooms)
		api.GET("/leaderboard", middleware.RateLimit(60, time.Minute), h.GetLeaderboard)
		api.GET("/matches", middleware.RateLimit(60, time.Minute), h.GetRecentMatches)
	}

	r.GET("/ws", ws.HandleWS(hub))
	r.GET("/ws/lobby", ws.HandleLobbyWS(hub))
}
