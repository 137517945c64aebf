package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"maintenance-orchestrator/config"
	"maintenance-orchestrator/internal/mw"
	"maintenance-orchestrator/internal/orchestrator"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(o *orchestrator.Orchestrator, webpushOptions *webpush.Options, cfg config.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(mw.RequestID(), mw.Logger(), gin.Recovery())
	r.GET("/healthz", Health)

	handler := NewHandler(o, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, mw.ActorOrIP)

	// Directory lookups are cached; any successful write flushes the cache.
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Invalidate(cacheStore))
	{
		api.GET("/devices", caching, handler.GetDevices)
		api.GET("/technicians", caching, handler.GetTechnicians)
		api.GET("/rejections", handler.GetRejections)

		requests := api.Group("/requests")
		requests.POST("", handler.CreateRequest)
		requests.GET("/:id", handler.GetRequest)
		requests.GET("/:id/rejections", handler.GetRequestRejections)
		requests.POST("/:id/assign", handler.AssignRequest)
		requests.POST("/:id/assignment/confirm", handler.ConfirmAssignment)
		requests.POST("/:id/assignment/reject", handler.RejectAssignment)
		requests.POST("/:id/start", handler.StartMaintenance)
		requests.POST("/:id/survey", handler.SubmitSurvey)
		requests.POST("/:id/plan", handler.SubmitPlan)
		requests.POST("/:id/accept", handler.AcceptRequest)
		requests.POST("/:id/reject-acceptance", handler.RejectAcceptance)
		requests.POST("/:id/cancel", handler.CancelRequest)

		api.POST("/plans/:id/approve", handler.ApprovePlan)
		api.POST("/plans/:id/reject", handler.RejectPlan)
		api.PATCH("/tasks/:id", handler.UpdateTask)

		api.POST("/jobs/generate-due-requests", handler.GenerateDueRequests)
		api.POST("/jobs/auto-assign", handler.AutoAssign)

		technicians := api.Group("/technicians/:id")
		technicians.POST("/availability/expand", handler.ExpandAvailability)
		technicians.GET("/subscription", handler.GetSubscription)
		technicians.PUT("/subscription", handler.PutSubscription)
		technicians.DELETE("/subscription", handler.DeleteSubscription)

		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
