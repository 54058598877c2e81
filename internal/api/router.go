package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	v1 "github.com/sellerdesk/backoffice/internal/api/v1"
	"github.com/sellerdesk/backoffice/internal/rest/middleware"
)

type Handlers struct {
	Health         *v1.HealthHandler
	Plan           *v1.PlanHandler
	Subscription   *v1.SubscriptionHandler
	Wallet         *v1.WalletHandler
	Entitlement    *v1.EntitlementHandler
	PlatformConfig *v1.PlatformConfigHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.TenantMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Plan catalog routes
	plans := router.Group("/plans")
	{
		plans.POST("", handlers.Plan.CreatePlan)
		plans.GET("", handlers.Plan.ListPlans)
		plans.GET("/standard", handlers.Plan.GetStandardPlan)
		plans.GET("/:id", handlers.Plan.GetPlan)
		plans.PUT("/:id", handlers.Plan.UpdatePlan)
		plans.POST("/:id/standard", handlers.Plan.SetStandardPlan)
	}

	// Premium feature routes
	features := router.Group("/features")
	{
		features.POST("", handlers.Plan.CreateFeature)
		features.GET("", handlers.Plan.ListFeatures)
		features.GET("/:id", handlers.Plan.GetFeature)
		features.PUT("/:id", handlers.Plan.UpdateFeature)
	}

	// Subscription lifecycle routes
	subscription := router.Group("/subscription")
	{
		subscription.GET("", handlers.Subscription.GetCurrent)
		subscription.GET("/history", handlers.Subscription.GetHistory)
		subscription.POST("/pending", handlers.Subscription.CreatePending)
		subscription.POST("/activate", handlers.Subscription.Activate)
		subscription.POST("/deactivate", handlers.Subscription.Deactivate)
		subscription.POST("/suspend", handlers.Subscription.Suspend)
		subscription.POST("/expire", handlers.Subscription.Expire)
	}

	// Wallet routes
	wallet := router.Group("/wallet")
	{
		wallet.GET("", handlers.Wallet.GetWallet)
		wallet.GET("/transactions", handlers.Wallet.GetHistory)
		wallet.GET("/verify", handlers.Wallet.VerifyBalance)
		wallet.POST("/credit", handlers.Wallet.Credit)
		wallet.POST("/debit", handlers.Wallet.Debit)
		wallet.POST("/adjust", handlers.Wallet.Adjust)
		wallet.POST("/freeze", handlers.Wallet.Freeze)
		wallet.POST("/unfreeze", handlers.Wallet.Unfreeze)
		wallet.POST("/close", handlers.Wallet.Close)
	}

	// Entitlement routes
	router.GET("/entitlements", handlers.Entitlement.GetEntitlements)

	// Platform config admin routes
	config := router.Group("/admin/config")
	{
		config.GET("", handlers.PlatformConfig.ListConfigs)
		config.PUT("", handlers.PlatformConfig.SetConfig)
		config.GET("/:key", handlers.PlatformConfig.GetConfig)
		config.DELETE("/:key", handlers.PlatformConfig.DeleteConfig)
	}
}
