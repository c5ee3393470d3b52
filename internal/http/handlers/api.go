package handlers

import (
	"net/http"

	"truco_server/internal/repository"
	"truco_server/internal/ws"

	"github.com/gin-gonic/gin"
)

// Handler держит зависимости REST-обработчиков
type Handler struct {
	Hub       *ws.Hub
	MatchRepo *repository.MatchRepository // nil = история выключена
	Version   string
}

func NewHandler(hub *ws.Hub, matchRepo *repository.MatchRepository, version string) *Handler {
	return &Handler{
		Hub:       hub,
		MatchRepo: matchRepo,
		Version:   version,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.Version,
	})
}
