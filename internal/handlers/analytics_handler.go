package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rugfork/internal/services"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
	rugScore  *services.RugScoreService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService, rugScore *services.RugScoreService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, rugScore: rugScore}
}

// GET /api/analytics/stats
func (h *AnalyticsHandler) GetPlatformStats(c *gin.Context) {
	stats, err := h.analytics.PlatformStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// GET /api/analytics/market?period=
func (h *AnalyticsHandler) GetMarket(c *gin.Context) {
	market, err := h.analytics.MarketAnalytics(c.Request.Context(), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, market)
}

// GET /api/analytics/patterns?period=
func (h *AnalyticsHandler) GetPatterns(c *gin.Context) {
	patterns, err := h.analytics.TradingPatterns(c.Request.Context(), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, patterns)
}

// GET /api/analytics/pool/:id?period=
func (h *AnalyticsHandler) GetPool(c *gin.Context) {
	stats, err := h.analytics.PoolAnalytics(c.Request.Context(), c.Param("id"), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// GET /api/analytics/user/:id?period=
func (h *AnalyticsHandler) GetUser(c *gin.Context) {
	userID, err := paramUint(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := h.analytics.UserAnalytics(c.Request.Context(), userID, c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// GetRugScore scores one token mint. Never fails on chain errors; those come
// back as a degraded worst case score.
// GET /api/analytics/rugscore/:tokenMint
func (h *AnalyticsHandler) GetRugScore(c *gin.Context) {
	mint := c.Param("tokenMint")
	res, err := h.rugScore.ScoreMint(c.Request.Context(), mint)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"tokenMint": mint,
		"rugScore":  res,
	})
}

// CompareRugScores scores several mints, safest first.
// GET /api/analytics/rugscore?mints=a,b
func (h *AnalyticsHandler) CompareRugScores(c *gin.Context) {
	var mints []string
	for _, m := range strings.Split(c.Query("mints"), ",") {
		if m = strings.TrimSpace(m); m != "" {
			mints = append(mints, m)
		}
	}
	ranked, err := h.rugScore.Compare(c.Request.Context(), mints)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, ranked)
}
