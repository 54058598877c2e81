package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/sellerdesk/backoffice/internal/api"
	v1 "github.com/sellerdesk/backoffice/internal/api/v1"
	"github.com/sellerdesk/backoffice/internal/audit"
	"github.com/sellerdesk/backoffice/internal/cache"
	"github.com/sellerdesk/backoffice/internal/config"
	"github.com/sellerdesk/backoffice/internal/logger"
	"github.com/sellerdesk/backoffice/internal/postgres"
	"github.com/sellerdesk/backoffice/internal/pubsub"
	"github.com/sellerdesk/backoffice/internal/pubsub/memory"
	"github.com/sellerdesk/backoffice/internal/repository"
	"github.com/sellerdesk/backoffice/internal/service"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/sellerdesk/backoffice/internal/validator"
)

// @title SellerDesk Back Office API
// @version 1.0
// @description Tenant subscription, wallet and entitlement service
// @BasePath /v1

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,

			// PubSub and audit sink
			memory.NewPubSub,
			audit.NewEmitter,

			// Repositories
			repository.NewPlanRepository,
			repository.NewFeatureRepository,
			repository.NewSubscriptionRepository,
			repository.NewWalletRepository,
			repository.NewPlatformConfigRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewPlanService,
			service.NewSubscriptionService,
			service.NewWalletService,
			service.NewEntitlementService,
			service.NewPlatformConfigService,
		),
	)

	// API layer
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	planService service.PlanService,
	subscriptionService service.SubscriptionService,
	walletService service.WalletService,
	entitlementService service.EntitlementService,
	platformConfigService service.PlatformConfigService,
) api.Handlers {
	return api.Handlers{
		Health:         v1.NewHealthHandler(logger),
		Plan:           v1.NewPlanHandler(planService, logger),
		Subscription:   v1.NewSubscriptionHandler(subscriptionService, logger),
		Wallet:         v1.NewWalletHandler(walletService, logger),
		Entitlement:    v1.NewEntitlementHandler(entitlementService, logger),
		PlatformConfig: v1.NewPlatformConfigHandler(platformConfigService, logger),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	pubSub pubsub.PubSub,
	auditEmitter audit.Emitter,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		startAuditConsumer(lc, pubSub, cfg, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return auditEmitter.Close()
		},
	})
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down API server")
			return srv.Shutdown(ctx)
		},
	})
}

// startAuditConsumer drains the in-memory audit topic in local mode so the
// gochannel buffer never fills up. A real deployment would replace this with
// an external sink.
func startAuditConsumer(
	lc fx.Lifecycle,
	pubSub pubsub.PubSub,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			messages, err := pubSub.Subscribe(context.Background(), cfg.Audit.Topic)
			if err != nil {
				return err
			}

			go func() {
				for msg := range messages {
					log.Debugw("audit event",
						"event_id", msg.UUID,
						"event_name", msg.Metadata.Get("event_name"),
						"tenant_id", msg.Metadata.Get("tenant_id"),
						"payload", string(msg.Payload),
					)
					msg.Ack()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping audit consumer")
			return nil
		},
	})
}
