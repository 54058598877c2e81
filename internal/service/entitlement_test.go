package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/sellerdesk/backoffice/internal/api/dto"
	"github.com/sellerdesk/backoffice/internal/testutil"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type EntitlementServiceSuite struct {
	testutil.BaseServiceTestSuite
	entitlementService EntitlementService
	planService        PlanService
	subService         SubscriptionService
	configService      PlatformConfigService
}

func TestEntitlementService(t *testing.T) {
	suite.Run(t, new(EntitlementServiceSuite))
}

func (s *EntitlementServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.entitlementService = NewEntitlementService(params)
	s.planService = NewPlanService(params)
	s.subService = NewSubscriptionService(params)
	s.configService = NewPlatformConfigService(params)
}

func (s *EntitlementServiceSuite) createFeature(code string, active bool, order int) string {
	resp, err := s.planService.CreateFeature(s.GetContext(), dto.CreateFeatureRequest{
		Code:         code,
		Name:         "Feature " + code,
		Active:       active,
		DisplayOrder: order,
	})
	s.Require().NoError(err)
	return resp.ID
}

func (s *EntitlementServiceSuite) createPlan(code string, price int64, featureIDs []string) *dto.PlanResponse {
	resp, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:         code,
		Name:         "Plan " + code,
		Price:        decimal.NewFromInt(price),
		Currency:     "usd",
		BillingCycle: types.BillingCycleMonthly,
		Active:       true,
		FeatureIDs:   featureIDs,
	})
	s.Require().NoError(err)
	return resp
}

func (s *EntitlementServiceSuite) TestActiveSubscriptionGrantsPlanFeatures() {
	reports := s.createFeature("reports", true, 2)
	exports := s.createFeature("exports", true, 1)
	p := s.createPlan("pro", 10, []string{reports, exports})

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	resp, err := s.entitlementService.GetEntitlements(s.GetContext())
	s.NoError(err)
	s.Equal(dto.EntitlementSourceSubscription, resp.Source)
	s.Equal(p.ID, resp.PlanID)
	s.Equal("pro", resp.PlanCode)
	s.Len(resp.Features, 2)
	s.True(resp.HasFeature("reports"))
	s.True(resp.HasFeature("exports"))
}

func (s *EntitlementServiceSuite) TestInactiveFeaturesExcluded() {
	active := s.createFeature("reports", true, 1)
	inactive := s.createFeature("legacy", false, 2)
	p := s.createPlan("pro", 10, []string{active, inactive})

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	resp, err := s.entitlementService.GetEntitlements(s.GetContext())
	s.NoError(err)
	s.Len(resp.Features, 1)
	s.True(resp.HasFeature("reports"))
	s.False(resp.HasFeature("legacy"))
}

func (s *EntitlementServiceSuite) TestNoSubscriptionFallsBackToStandardPlan() {
	f := s.createFeature("basic-reports", true, 1)
	std := s.createPlan("free", 0, []string{f})

	_, err := s.planService.SetStandardPlan(s.GetContext(), std.ID)
	s.Require().NoError(err)

	resp, err := s.entitlementService.GetEntitlements(s.GetContext())
	s.NoError(err)
	s.Equal(dto.EntitlementSourceStandard, resp.Source)
	s.Equal(std.ID, resp.PlanID)
	s.True(resp.HasFeature("basic-reports"))
}

func (s *EntitlementServiceSuite) TestCancelledSubscriptionFallsBack() {
	f := s.createFeature("premium-reports", true, 1)
	pro := s.createPlan("pro", 10, []string{f})

	free := s.createPlan("free", 0, nil)
	_, err := s.planService.SetStandardPlan(s.GetContext(), free.ID)
	s.Require().NoError(err)

	_, err = s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: pro.ID})
	s.Require().NoError(err)

	_, err = s.subService.Deactivate(s.GetContext(), dto.DeactivateSubscriptionRequest{Reason: "churn"})
	s.Require().NoError(err)

	resp, err := s.entitlementService.GetEntitlements(s.GetContext())
	s.NoError(err)
	s.Equal(dto.EntitlementSourceStandard, resp.Source)
	s.Equal(free.ID, resp.PlanID)
	s.Empty(resp.Features)
}

func (s *EntitlementServiceSuite) TestSuspendedSubscriptionDoesNotGrant() {
	f := s.createFeature("reports", true, 1)
	pro := s.createPlan("pro", 10, []string{f})

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: pro.ID})
	s.Require().NoError(err)

	_, err = s.subService.Suspend(s.GetContext(), dto.SuspendSubscriptionRequest{Reason: "payment failed"})
	s.Require().NoError(err)

	resp, err := s.entitlementService.GetEntitlements(s.GetContext())
	s.NoError(err)
	s.NotEqual(dto.EntitlementSourceSubscription, resp.Source)
	s.False(resp.HasFeature("reports"))
}

func (s *EntitlementServiceSuite) TestNoSubscriptionNoStandardPlan() {
	resp, err := s.entitlementService.GetEntitlements(s.GetContext())
	s.NoError(err)
	s.Equal(dto.EntitlementSourceNone, resp.Source)
	s.Empty(resp.Features)
	s.Empty(resp.PlanID)
}

func (s *EntitlementServiceSuite) TestDefaultPlanCodeFallback() {
	f := s.createFeature("starter-reports", true, 1)
	starter := s.createPlan("starter", 0, []string{f})

	// No plan flagged standard, but the platform config names one
	_, err := s.configService.SetConfig(s.GetContext(), dto.SetPlatformConfigRequest{
		Key:   types.ConfigKeyDefaultPlanCode,
		Value: "starter",
	})
	s.Require().NoError(err)

	resp, err := s.entitlementService.GetEntitlements(s.GetContext())
	s.NoError(err)
	s.Equal(dto.EntitlementSourceStandard, resp.Source)
	s.Equal(starter.ID, resp.PlanID)
	s.True(resp.HasFeature("starter-reports"))
}

func (s *EntitlementServiceSuite) TestFeatureOrderFollowsDisplayOrder() {
	third := s.createFeature("gamma", true, 3)
	first := s.createFeature("alpha", true, 1)
	second := s.createFeature("beta", true, 2)
	p := s.createPlan("pro", 10, []string{third, first, second})

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	resp, err := s.entitlementService.GetEntitlements(s.GetContext())
	s.NoError(err)

	codes := lo.Map(resp.Features, func(f *dto.FeatureResponse, _ int) string { return f.Code })
	s.Equal([]string{"alpha", "beta", "gamma"}, codes)
}
