package service

import (
	"testing"

	"github.com/sellerdesk/backoffice/internal/api/dto"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/testutil"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PlanServiceSuite struct {
	testutil.BaseServiceTestSuite
	planService PlanService
}

func TestPlanService(t *testing.T) {
	suite.Run(t, new(PlanServiceSuite))
}

func (s *PlanServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.planService = NewPlanService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *PlanServiceSuite) createFeature(code string, active bool, order int) *dto.FeatureResponse {
	resp, err := s.planService.CreateFeature(s.GetContext(), dto.CreateFeatureRequest{
		Code:         code,
		Name:         "Feature " + code,
		Active:       active,
		DisplayOrder: order,
	})
	s.Require().NoError(err)
	return resp
}

func (s *PlanServiceSuite) TestCreatePlan() {
	f1 := s.createFeature("reports", true, 1)
	f2 := s.createFeature("exports", true, 2)

	resp, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:         "pro-monthly",
		Name:         "Pro Monthly",
		Price:        decimal.NewFromFloat(29.99),
		Currency:     "usd",
		BillingCycle: types.BillingCycleMonthly,
		Active:       true,
		FeatureIDs:   []string{f1.ID, f2.ID},
	})
	s.NoError(err)
	s.NotNil(resp)
	s.Equal("pro-monthly", resp.Code)
	s.True(resp.Price.Equal(decimal.NewFromFloat(29.99)))
	s.True(resp.EffectivePrice.Equal(decimal.NewFromFloat(29.99)))
	s.Len(resp.FeatureIDs, 2)
}

func (s *PlanServiceSuite) TestCreatePlanDuplicateCode() {
	req := dto.CreatePlanRequest{
		Code:         "pro",
		Name:         "Pro",
		Price:        decimal.NewFromInt(10),
		Currency:     "usd",
		BillingCycle: types.BillingCycleMonthly,
		Active:       true,
	}

	_, err := s.planService.CreatePlan(s.GetContext(), req)
	s.NoError(err)

	_, err = s.planService.CreatePlan(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *PlanServiceSuite) TestCreatePlanInvalidBillingCycle() {
	_, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:         "weird",
		Name:         "Weird",
		Price:        decimal.NewFromInt(10),
		Currency:     "usd",
		BillingCycle: types.BillingCycle("WEEKLY"),
		Active:       true,
	})
	s.Error(err)
	s.True(ierr.IsInvalidPlanConfiguration(err))
}

func (s *PlanServiceSuite) TestCreatePlanNegativePrice() {
	_, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:         "negative",
		Name:         "Negative",
		Price:        decimal.NewFromInt(-5),
		Currency:     "usd",
		BillingCycle: types.BillingCycleMonthly,
		Active:       true,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PlanServiceSuite) TestCreatePlanDiscountOutOfRange() {
	_, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:               "discounted",
		Name:               "Discounted",
		Price:              decimal.NewFromInt(100),
		Currency:           "usd",
		BillingCycle:       types.BillingCycleMonthly,
		DiscountPercentage: decimal.NewFromInt(120),
		Active:             true,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PlanServiceSuite) TestCreatePlanUnknownFeature() {
	_, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:         "pro",
		Name:         "Pro",
		Price:        decimal.NewFromInt(10),
		Currency:     "usd",
		BillingCycle: types.BillingCycleMonthly,
		Active:       true,
		FeatureIDs:   []string{"feat_missing"},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PlanServiceSuite) TestEffectivePriceWithDiscount() {
	resp, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:               "discounted",
		Name:               "Discounted",
		Price:              decimal.NewFromInt(100),
		Currency:           "usd",
		BillingCycle:       types.BillingCycleYearly,
		DiscountPercentage: decimal.NewFromInt(25),
		Active:             true,
	})
	s.NoError(err)
	s.True(resp.EffectivePrice.Equal(decimal.NewFromInt(75)),
		"expected 75, got %s", resp.EffectivePrice)
}

func (s *PlanServiceSuite) TestGetPlanNotFound() {
	_, err := s.planService.GetPlan(s.GetContext(), "plan_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PlanServiceSuite) TestListPlansActiveOnly() {
	for _, p := range []struct {
		code   string
		active bool
	}{
		{"active-1", true},
		{"inactive-1", false},
		{"active-2", true},
	} {
		_, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
			Code:         p.code,
			Name:         p.code,
			Price:        decimal.NewFromInt(10),
			Currency:     "usd",
			BillingCycle: types.BillingCycleMonthly,
			Active:       p.active,
		})
		s.Require().NoError(err)
	}

	all, err := s.planService.ListPlans(s.GetContext(), false)
	s.NoError(err)
	s.Len(all.Items, 3)

	active, err := s.planService.ListPlans(s.GetContext(), true)
	s.NoError(err)
	s.Len(active.Items, 2)
}

func (s *PlanServiceSuite) TestUpdatePlan() {
	created, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:         "pro",
		Name:         "Pro",
		Price:        decimal.NewFromInt(10),
		Currency:     "usd",
		BillingCycle: types.BillingCycleMonthly,
		Active:       true,
	})
	s.Require().NoError(err)

	newName := "Pro Plus"
	newPrice := decimal.NewFromInt(15)
	updated, err := s.planService.UpdatePlan(s.GetContext(), created.ID, dto.UpdatePlanRequest{
		Name:  &newName,
		Price: &newPrice,
	})
	s.NoError(err)
	s.Equal("Pro Plus", updated.Name)
	s.True(updated.Price.Equal(newPrice))
	// Unchanged fields survive
	s.Equal("pro", updated.Code)
	s.Equal(types.BillingCycleMonthly, updated.BillingCycle)
}

func (s *PlanServiceSuite) TestSetStandardPlanSwaps() {
	first, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:         "basic",
		Name:         "Basic",
		Price:        decimal.Zero,
		Currency:     "usd",
		BillingCycle: types.BillingCycleMonthly,
		Active:       true,
	})
	s.Require().NoError(err)

	second, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:         "starter",
		Name:         "Starter",
		Price:        decimal.Zero,
		Currency:     "usd",
		BillingCycle: types.BillingCycleMonthly,
		Active:       true,
	})
	s.Require().NoError(err)

	_, err = s.planService.SetStandardPlan(s.GetContext(), first.ID)
	s.NoError(err)

	std, err := s.planService.GetStandardPlan(s.GetContext())
	s.NoError(err)
	s.Equal(first.ID, std.ID)

	_, err = s.planService.SetStandardPlan(s.GetContext(), second.ID)
	s.NoError(err)

	std, err = s.planService.GetStandardPlan(s.GetContext())
	s.NoError(err)
	s.Equal(second.ID, std.ID)

	// The previous standard lost the flag
	prev, err := s.planService.GetPlan(s.GetContext(), first.ID)
	s.NoError(err)
	s.False(prev.Standard)
}

func (s *PlanServiceSuite) TestSetStandardPlanInactiveFails() {
	created, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:         "dormant",
		Name:         "Dormant",
		Price:        decimal.Zero,
		Currency:     "usd",
		BillingCycle: types.BillingCycleMonthly,
		Active:       false,
	})
	s.Require().NoError(err)

	_, err = s.planService.SetStandardPlan(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PlanServiceSuite) TestFeatureAdmin() {
	created := s.createFeature("analytics", true, 3)

	got, err := s.planService.GetFeature(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal("analytics", got.Code)

	inactive := false
	updated, err := s.planService.UpdateFeature(s.GetContext(), created.ID, dto.UpdateFeatureRequest{
		Active: &inactive,
	})
	s.NoError(err)
	s.False(updated.Active)

	list, err := s.planService.ListFeatures(s.GetContext())
	s.NoError(err)
	s.Len(list.Items, 1)
}

func (s *PlanServiceSuite) TestFeatureDuplicateCode() {
	s.createFeature("reports", true, 1)

	_, err := s.planService.CreateFeature(s.GetContext(), dto.CreateFeatureRequest{
		Code:   "reports",
		Name:   "Reports again",
		Active: true,
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *PlanServiceSuite) TestGetPlanCaches() {
	created, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:         "cached",
		Name:         "Cached",
		Price:        decimal.NewFromInt(10),
		Currency:     "usd",
		BillingCycle: types.BillingCycleMonthly,
		Active:       true,
	})
	s.Require().NoError(err)

	first, err := s.planService.GetPlan(s.GetContext(), created.ID)
	s.NoError(err)

	second, err := s.planService.GetPlan(s.GetContext(), created.ID)
	s.NoError(err)
	s.Same(first, second)

	// An update invalidates the cached entry
	newName := "Cached v2"
	_, err = s.planService.UpdatePlan(s.GetContext(), created.ID, dto.UpdatePlanRequest{Name: &newName})
	s.NoError(err)

	third, err := s.planService.GetPlan(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal("Cached v2", third.Name)
}
