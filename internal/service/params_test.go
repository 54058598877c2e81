package service

import (
	"github.com/sellerdesk/backoffice/internal/testutil"
)

func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:             s.GetLogger(),
		Config:             s.GetConfig(),
		DB:                 s.GetDB(),
		PlanRepo:           stores.PlanRepo,
		FeatureRepo:        stores.FeatureRepo,
		SubRepo:            stores.SubRepo,
		WalletRepo:         stores.WalletRepo,
		PlatformConfigRepo: stores.PlatformConfigRepo,
		Cache:              s.GetCache(),
		AuditEmitter:       s.GetAuditEmitter(),
	}
}
