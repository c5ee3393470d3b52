package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListRooms - список комнат для лобби: имя, сидящие, зрители.
// Содержимое карт сюда не попадает
func (h *Handler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rooms": h.Hub.Summaries(),
	})
}
