package service

import (
	"github.com/sellerdesk/backoffice/internal/audit"
	"github.com/sellerdesk/backoffice/internal/cache"
	"github.com/sellerdesk/backoffice/internal/config"
	"github.com/sellerdesk/backoffice/internal/domain/feature"
	"github.com/sellerdesk/backoffice/internal/domain/plan"
	"github.com/sellerdesk/backoffice/internal/domain/platformconfig"
	"github.com/sellerdesk/backoffice/internal/domain/subscription"
	"github.com/sellerdesk/backoffice/internal/domain/wallet"
	"github.com/sellerdesk/backoffice/internal/logger"
	"github.com/sellerdesk/backoffice/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	PlanRepo           plan.Repository
	FeatureRepo        feature.Repository
	SubRepo            subscription.Repository
	WalletRepo         wallet.Repository
	PlatformConfigRepo platformconfig.Repository

	Cache        cache.Cache
	AuditEmitter audit.Emitter
}

// NewServiceParams assembles the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	planRepo plan.Repository,
	featureRepo feature.Repository,
	subRepo subscription.Repository,
	walletRepo wallet.Repository,
	platformConfigRepo platformconfig.Repository,
	cache cache.Cache,
	auditEmitter audit.Emitter,
) ServiceParams {
	return ServiceParams{
		Logger:             logger,
		Config:             config,
		DB:                 db,
		PlanRepo:           planRepo,
		FeatureRepo:        featureRepo,
		SubRepo:            subRepo,
		WalletRepo:         walletRepo,
		PlatformConfigRepo: platformConfigRepo,
		Cache:              cache,
		AuditEmitter:       auditEmitter,
	}
}
