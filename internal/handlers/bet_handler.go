package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rugfork/internal/apperr"
	"rugfork/internal/models"
	"rugfork/internal/services"
)

type BetHandler struct {
	bets *services.BetService
}

func NewBetHandler(bets *services.BetService) *BetHandler {
	return &BetHandler{bets: bets}
}

// PlaceBet stakes lamports on a pool reaching a multiplier.
// POST /api/bets
func (h *BetHandler) PlaceBet(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.PlaceBetRequest
	if !bindJSON(c, &req) {
		return
	}
	bet, err := h.bets.PlaceBet(c.Request.Context(), a.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, bet)
}

// GET /api/bets/:id
func (h *BetHandler) GetBet(c *gin.Context) {
	bet, err := h.bets.GetBet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, bet)
}

// GetMyBets lists the caller's bets.
// GET /api/bets?pool_id=&status=&page=&limit=
func (h *BetHandler) GetMyBets(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	filter := models.BetFilter{
		UserID: a.UserID,
		Status: c.Query("status"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	}
	if raw := c.Query("pool_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, apperr.InvalidInputf("invalid pool id"))
			return
		}
		filter.PoolID = &id
	}

	page, err := h.bets.ListBets(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, page)
}

// SettleBet resolves a bet at the observed crash point.
// PATCH /api/bets/:id/settle
func (h *BetHandler) SettleBet(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.SettleBetRequest
	if !bindJSON(c, &req) {
		return
	}
	bet, err := h.bets.SettleBet(c.Request.Context(), a, c.Param("id"), req.CrashPoint)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, bet)
}

// GET /api/bets/stats/user
func (h *BetHandler) GetUserBetStats(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	stats, err := h.bets.UserBetStats(c.Request.Context(), a.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}
