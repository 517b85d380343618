package http

import (
	"time"

	"clicker_webapp/internal/http/handlers"
	"clicker_webapp/internal/http/middleware"
	"clicker_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps bundles what the router needs; main builds it from config and the
// service layer.
type Deps struct {
	Handler   *handlers.Handler
	Referrals handlers.Referrals
	Health    *handlers.HealthHandler
	Tokens    middleware.TokenParser

	APIRateLimit     int
	APIRateWindow    time.Duration
	ActionRateLimit  int
	ActionRateWindow time.Duration
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestLogger())

	// Health checks (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(d.APIRateLimit, d.APIRateWindow))
	registerAPIRoutes(v1, d)
}

func registerAPIRoutes(api *gin.RouterGroup, d Deps) {
	h := d.Handler

	// Auth
	api.POST("/auth", h.Auth)
	api.POST("/auth/refresh", h.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(d.Tokens, service.TokenAccess))

	// state-changing actions are additionally limited per user
	actionRL := middleware.ActionRateLimit(d.ActionRateLimit, d.ActionRateWindow)

	user := authed.Group("/user")
	{
		user.GET("/profile", h.Profile)
		user.PATCH("/sync_clicks", actionRL, h.SyncClicks)
		user.PATCH("/bonus/inspiration", actionRL, h.Inspiration)
		user.POST("/bonus/replenishment", actionRL, h.Replenishment)
		user.PATCH("/promote", actionRL, h.Promote)
		user.GET("/transactions", h.Transactions)
	}

	mining := authed.Group("/mining")
	{
		mining.POST("/start", actionRL, h.StartMining)
		mining.POST("/claim", actionRL, h.ClaimMining)
	}

	rewards := authed.Group("/rewards")
	{
		rewards.GET("", h.ListRewards)
		rewards.POST("/claim", actionRL, h.ClaimReward)
	}

	tasks := authed.Group("/tasks")
	{
		tasks.GET("/available", h.AvailableTasks)
		tasks.POST("/:id/start", actionRL, h.StartTask)
		tasks.POST("/:id/complete", actionRL, h.CompleteTask)
	}

	referralHandler := handlers.NewReferralHandler(d.Referrals)
	referral := authed.Group("/referral")
	{
		referral.GET("/link", referralHandler.GetReferralLink)
		referral.GET("/friends", referralHandler.GetFriends)
	}
}
