package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rugfork/internal/auth"
	"rugfork/internal/blockchain"
	"rugfork/internal/events"
	"rugfork/internal/metrics"
	"rugfork/internal/middleware"
)

// Router holds everything the HTTP surface is built from.
type Router struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Pools       *PoolHandler
	Bets        *BetHandler
	Leaderboard *LeaderboardHandler
	Analytics   *AnalyticsHandler
	Tournaments *TournamentHandler

	// reported on /health when set
	Chain interface {
		Diagnose(ctx context.Context) *blockchain.Diagnostics
	}

	Hub            *events.Hub
	Metrics        *metrics.Metrics
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
}

// Engine builds the gin engine with every route registered.
func (r *Router) Engine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if len(r.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     r.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if r.Metrics != nil {
		router.Use(r.Metrics.GinMiddleware())
		router.GET("/metrics", gin.WrapH(r.Metrics.Handler()))
	}

	router.GET("/health", r.health)
	if r.Hub != nil {
		router.GET("/ws/feed", r.Hub.ServeWS)
	}

	limited := router.Group("")
	if r.RateLimiter != nil {
		limited.Use(r.RateLimiter.Middleware())
	}

	authRoutes := limited.Group("/auth")
	{
		authRoutes.POST("/wallet", r.Auth.WalletLogin)
		authRoutes.POST("/logout", r.Auth.Logout)
		authRoutes.GET("/me", auth.AuthMiddleware(), r.Auth.GetMe)
	}

	// Public API routes
	public := limited.Group("/api")
	{
		public.GET("/pools", r.Pools.GetPools)
		public.GET("/pools/:id", r.Pools.GetPool)
		public.GET("/pools/:id/analytics", r.Pools.GetPoolAnalytics)

		public.GET("/bets/:id", r.Bets.GetBet)

		public.GET("/leaderboard", r.Leaderboard.GetLeaderboard)
		public.GET("/leaderboard/stats", r.Leaderboard.GetStats)
		public.GET("/leaderboard/user/:userId", r.Leaderboard.GetUserRank)

		public.GET("/analytics/stats", r.Analytics.GetPlatformStats)
		public.GET("/analytics/market", r.Analytics.GetMarket)
		public.GET("/analytics/patterns", r.Analytics.GetPatterns)
		public.GET("/analytics/pool/:id", r.Analytics.GetPool)
		public.GET("/analytics/user/:id", r.Analytics.GetUser)
		public.GET("/analytics/rugscore", r.Analytics.CompareRugScores)
		public.GET("/analytics/rugscore/:tokenMint", r.Analytics.GetRugScore)

		public.GET("/tournaments", r.Tournaments.List)
		public.GET("/tournaments/:id", r.Tournaments.Get)
	}

	// API routes (protected)
	api := limited.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		api.GET("/users/profile", r.Users.GetProfile)
		api.PUT("/users/profile", r.Users.UpdateProfile)
		api.GET("/users/stats", r.Users.GetStats)

		api.POST("/pools", r.Pools.CreatePool)
		api.PATCH("/pools/:id/status", r.Pools.UpdateStatus)
		api.POST("/pools/:id/crash", r.Pools.CrashPool)

		api.GET("/bets", r.Bets.GetMyBets)
		api.POST("/bets", r.Bets.PlaceBet)
		api.PATCH("/bets/:id/settle", r.Bets.SettleBet)
		api.GET("/bets/stats/user", r.Bets.GetUserBetStats)

		api.POST("/tournaments", r.Tournaments.Create)
		api.POST("/tournaments/:id/join", r.Tournaments.Join)
		api.POST("/tournaments/:id/finalize", r.Tournaments.Finalize)
	}

	return router
}

func (r *Router) health(c *gin.Context) {
	resp := gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if r.Chain != nil {
		d := r.Chain.Diagnose(c.Request.Context())
		if !d.RPCConnected {
			resp["status"] = "degraded"
		}
		resp["solana"] = d
	}
	if r.Hub != nil {
		resp["feed_clients"] = r.Hub.ClientCount()
	}
	c.JSON(http.StatusOK, resp)
}
