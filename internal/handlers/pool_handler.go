package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rugfork/internal/models"
	"rugfork/internal/services"
)

type PoolHandler struct {
	pools     *services.PoolService
	analytics *services.AnalyticsService
}

func NewPoolHandler(pools *services.PoolService, analytics *services.AnalyticsService) *PoolHandler {
	return &PoolHandler{pools: pools, analytics: analytics}
}

// GetPools lists active pools.
// GET /api/pools?page=&limit=&sort_by=&order=
func (h *PoolHandler) GetPools(c *gin.Context) {
	page, err := h.pools.ListPools(c.Request.Context(),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 20),
		c.Query("sort_by"),
		c.DefaultQuery("order", "desc"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, page)
}

// GET /api/pools/:id
func (h *PoolHandler) GetPool(c *gin.Context) {
	pool, err := h.pools.GetPool(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, pool)
}

// CreatePool launches a pool and scores it.
// POST /api/pools
func (h *PoolHandler) CreatePool(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.CreatePoolRequest
	if !bindJSON(c, &req) {
		return
	}
	pool, err := h.pools.CreatePool(c.Request.Context(), a.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, pool)
}

// PATCH /api/pools/:id/status
func (h *PoolHandler) UpdateStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.UpdatePoolStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	pool, err := h.pools.SetStatus(c.Request.Context(), a, c.Param("id"), *req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, pool)
}

// CrashPool closes a pool at its crash point and settles every open bet.
// POST /api/pools/:id/crash
func (h *PoolHandler) CrashPool(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.CrashPoolRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.pools.CrashPool(c.Request.Context(), a, c.Param("id"), req.CrashPoint)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

// GET /api/pools/:id/analytics?period=
func (h *PoolHandler) GetPoolAnalytics(c *gin.Context) {
	stats, err := h.analytics.PoolAnalytics(c.Request.Context(), c.Param("id"), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}
