package repository

import (
	"github.com/sellerdesk/backoffice/internal/domain/feature"
	"github.com/sellerdesk/backoffice/internal/domain/plan"
	"github.com/sellerdesk/backoffice/internal/domain/platformconfig"
	"github.com/sellerdesk/backoffice/internal/domain/subscription"
	"github.com/sellerdesk/backoffice/internal/domain/wallet"
	"github.com/sellerdesk/backoffice/internal/logger"
	pg "github.com/sellerdesk/backoffice/internal/postgres"
	pgRepo "github.com/sellerdesk/backoffice/internal/repository/postgres"
)

func NewPlanRepository(db pg.IClient, logger *logger.Logger) plan.Repository {
	return pgRepo.NewPlanRepository(db, logger)
}

func NewFeatureRepository(db pg.IClient, logger *logger.Logger) feature.Repository {
	return pgRepo.NewFeatureRepository(db, logger)
}

func NewSubscriptionRepository(db pg.IClient, logger *logger.Logger) subscription.Repository {
	return pgRepo.NewSubscriptionRepository(db, logger)
}

func NewWalletRepository(db pg.IClient, logger *logger.Logger) wallet.Repository {
	return pgRepo.NewWalletRepository(db, logger)
}

func NewPlatformConfigRepository(db pg.IClient, logger *logger.Logger) platformconfig.Repository {
	return pgRepo.NewPlatformConfigRepository(db, logger)
}
