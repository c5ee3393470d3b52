package handlers

import (
	"net/http"
	"strings"

	"truco_server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxNameLen = 32

// GuestAuth выдает гостевой токен для websocket-входа: id соединения
// генерируется здесь, аккаунтов и паролей нет
func (h *Handler) GuestAuth(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	playerID := uuid.NewString()
	token, err := service.IssueToken(playerID, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"player_id": playerID,
		"name":      name,
	})
}
