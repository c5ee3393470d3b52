package handlers

import (
	"net/http"

	"truco_server/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard - игроки по числу выигранных матчей
func (h *Handler) GetLeaderboard(c *gin.Context) {
	if h.MatchRepo == nil {
		c.JSON(http.StatusOK, gin.H{"leaderboard": []domain.LeaderboardEntry{}})
		return
	}

	top, err := h.MatchRepo.GetTopWinners(c.Request.Context(), 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}
	if top == nil {
		top = []domain.LeaderboardEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": top})
}

// GetRecentMatches - последние завершенные матчи
func (h *Handler) GetRecentMatches(c *gin.Context) {
	if h.MatchRepo == nil {
		c.JSON(http.StatusOK, gin.H{"matches": []domain.MatchRecord{}})
		return
	}

	matches, err := h.MatchRepo.GetRecent(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get matches"})
		return
	}
	if matches == nil {
		matches = []domain.MatchRecord{}
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
