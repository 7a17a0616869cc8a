package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rugfork/internal/services"
)

type LeaderboardHandler struct {
	leaderboard *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboard *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// GET /api/leaderboard?type=&period=
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	lb, err := h.leaderboard.GetLeaderboard(c.Request.Context(), c.Query("type"), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, lb)
}

// GET /api/leaderboard/stats
func (h *LeaderboardHandler) GetStats(c *gin.Context) {
	stats, err := h.leaderboard.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// GET /api/leaderboard/user/:userId?type=&period=
func (h *LeaderboardHandler) GetUserRank(c *gin.Context) {
	userID, err := paramUint(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	entry, err := h.leaderboard.GetUserRank(c.Request.Context(), userID, c.Query("type"), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, entry)
}
