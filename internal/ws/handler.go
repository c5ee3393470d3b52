package ws

import (
	"net/http"
	"os"

	"truco_server/internal/logger"
	"truco_server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func newUpgrader() websocket.Upgrader {
	allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}
}

// HandleWS - вход в игровую комнату.
// Query: token (гостевой JWT), room (имя комнаты), mode (player|watch)
func HandleWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token is required"})
			return
		}

		playerID, name, err := service.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		roomName := c.Query("room")
		if roomName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "room is required"})
			return
		}

		mode := c.Query("mode")
		if mode != ModePlayer && mode != ModeWatch {
			mode = ModeAuto
		}

		upgrader := newUpgrader()
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}

		client := NewClient(playerID, name, conn, hub)
		client.Run()
		hub.JoinRoom(roomName, client, mode)
	}
}

// HandleLobbyWS - подписка на список комнат; карты сюда не попадают,
// поэтому аутентификация не требуется
func HandleLobbyWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		upgrader := newUpgrader()
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("lobby ws upgrade failed", "error", err)
			return
		}

		client := NewClient(uuid.NewString(), "lobby", conn, hub)
		client.Run()
		hub.AddLobbyWatcher(client)
	}
}
