package service

import (
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/sellerdesk/backoffice/internal/api/dto"
	"github.com/sellerdesk/backoffice/internal/domain/subscription"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/testutil"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	subService  SubscriptionService
	planService PlanService
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.subService = NewSubscriptionService(params)
	s.planService = NewPlanService(params)
}

func (s *SubscriptionServiceSuite) createPlan(code string, price float64, cycle types.BillingCycle) *dto.PlanResponse {
	resp, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:         code,
		Name:         "Plan " + code,
		Price:        decimal.NewFromFloat(price),
		Currency:     "usd",
		BillingCycle: cycle,
		Active:       true,
	})
	s.Require().NoError(err)
	return resp
}

func (s *SubscriptionServiceSuite) TestActivateFirstSubscription() {
	p := s.createPlan("pro-monthly", 29.99, types.BillingCycleMonthly)

	before := time.Now().UTC()
	resp, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{
		PlanID:           p.ID,
		PaymentReference: "pay-001",
	})
	s.NoError(err)
	s.Require().NotNil(resp)

	s.Equal(types.SubscriptionStatusActive, resp.SubscriptionStatus)
	s.Equal(p.ID, resp.PlanID)
	s.True(resp.PricePaid.Equal(decimal.NewFromFloat(29.99)))
	s.Equal("pay-001", resp.PaymentReference)
	s.NotNil(resp.ActivatedAt)
	s.Equal(types.DefaultActorID, resp.ActivatedBy)

	s.Require().NotNil(resp.NextBillingDate)
	expected := types.AddClampedDate(*resp.ActivatedAt, 0, 1, 0)
	s.True(resp.NextBillingDate.Equal(expected),
		"next billing date %s, expected %s", resp.NextBillingDate, expected)
	s.False(resp.NextBillingDate.Before(before))

	history, err := s.subService.GetHistory(s.GetContext())
	s.NoError(err)
	s.Require().Len(history, 1)
	s.Equal(types.HistoryActionActivated, history[0].Action)
	s.Equal(p.ID, history[0].NewPlanID)
	s.Nil(history[0].OldPlanID)
}

func (s *SubscriptionServiceSuite) TestActivateEmitsAuditEvent() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.NoError(err)

	events := s.GetAuditEmitter().EventsNamed(types.AuditEventSubscriptionActivated)
	s.Len(events, 1)
	s.Equal(types.DefaultTenantID, events[0].TenantID)
}

func (s *SubscriptionServiceSuite) TestActivateUnknownPlan() {
	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: "plan_missing"})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestActivateInactivePlan() {
	created, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:         "dormant",
		Name:         "Dormant",
		Price:        decimal.NewFromInt(10),
		Currency:     "usd",
		BillingCycle: types.BillingCycleMonthly,
		Active:       false,
	})
	s.Require().NoError(err)

	_, err = s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: created.ID})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *SubscriptionServiceSuite) TestCreatePendingThenActivate() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	pending, err := s.subService.CreatePending(s.GetContext(), dto.CreatePendingSubscriptionRequest{
		PlanID: p.ID,
		Notes:  "awaiting payment",
	})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusPendingActivation, pending.SubscriptionStatus)

	active, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, active.SubscriptionStatus)
	s.Equal(pending.ID, active.ID, "activation completes the pending row, not a new one")

	history, err := s.subService.GetHistory(s.GetContext())
	s.NoError(err)
	s.Require().Len(history, 2)
	s.Equal(types.HistoryActionCreated, history[0].Action)
	s.Equal(types.HistoryActionActivated, history[1].Action)
}

func (s *SubscriptionServiceSuite) TestCreatePendingWithLiveSubscriptionFails() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	_, err = s.subService.CreatePending(s.GetContext(), dto.CreatePendingSubscriptionRequest{PlanID: p.ID})
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))
}

func (s *SubscriptionServiceSuite) TestUpgradeByEffectivePrice() {
	basic := s.createPlan("basic", 10, types.BillingCycleMonthly)
	premium := s.createPlan("premium", 30, types.BillingCycleMonthly)

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: basic.ID})
	s.Require().NoError(err)

	resp, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: premium.ID})
	s.NoError(err)
	s.Equal(premium.ID, resp.PlanID)

	history, err := s.subService.GetHistory(s.GetContext())
	s.NoError(err)
	s.Require().Len(history, 2)
	s.Equal(types.HistoryActionUpgraded, history[1].Action)
	s.Require().NotNil(history[1].OldPlanID)
	s.Equal(basic.ID, *history[1].OldPlanID)

	events := s.GetAuditEmitter().EventsNamed(types.AuditEventSubscriptionPlanChanged)
	s.Len(events, 1)
}

func (s *SubscriptionServiceSuite) TestDowngradeByEffectivePrice() {
	// Discount makes the nominally pricier plan the cheaper one
	discounted, err := s.planService.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Code:               "premium-deal",
		Name:               "Premium Deal",
		Price:              decimal.NewFromInt(40),
		Currency:           "usd",
		BillingCycle:       types.BillingCycleMonthly,
		DiscountPercentage: decimal.NewFromInt(90),
		Active:             true,
	})
	s.Require().NoError(err)

	standard := s.createPlan("standard", 20, types.BillingCycleMonthly)

	_, err = s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: standard.ID})
	s.Require().NoError(err)

	_, err = s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: discounted.ID})
	s.NoError(err)

	history, err := s.subService.GetHistory(s.GetContext())
	s.NoError(err)
	s.Require().Len(history, 2)
	s.Equal(types.HistoryActionDowngraded, history[1].Action)
}

func (s *SubscriptionServiceSuite) TestEqualPriceChangeIsRenewal() {
	a := s.createPlan("plan-a", 15, types.BillingCycleMonthly)
	b := s.createPlan("plan-b", 15, types.BillingCycleMonthly)

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: a.ID})
	s.Require().NoError(err)

	_, err = s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: b.ID})
	s.NoError(err)

	history, err := s.subService.GetHistory(s.GetContext())
	s.NoError(err)
	s.Require().Len(history, 2)
	s.Equal(types.HistoryActionRenewed, history[1].Action)
}

func (s *SubscriptionServiceSuite) TestRenewSamePlanBeforeBillingDateFails() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	_, err = s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))
}

func (s *SubscriptionServiceSuite) TestRenewSamePlanWhenDue() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	s.rewindNextBillingDate()

	resp, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, resp.SubscriptionStatus)
	s.True(resp.NextBillingDate.After(time.Now().UTC()))

	history, err := s.subService.GetHistory(s.GetContext())
	s.NoError(err)
	actions := lo.Map(history, func(h *dto.SubscriptionHistoryResponse, _ int) types.HistoryAction {
		return h.Action
	})
	s.Contains(actions, types.HistoryActionRenewed)

	events := s.GetAuditEmitter().EventsNamed(types.AuditEventSubscriptionRenewed)
	s.NotEmpty(events)
}

func (s *SubscriptionServiceSuite) TestDeactivate() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	resp, err := s.subService.Deactivate(s.GetContext(), dto.DeactivateSubscriptionRequest{
		Reason: "customer churned",
	})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusCancelled, resp.SubscriptionStatus)
	s.NotNil(resp.CancelledAt)
	s.Equal("customer churned", resp.CancellationReason)

	// The tenant's live slot is free again
	current, err := s.subService.GetCurrent(s.GetContext())
	s.NoError(err)
	s.Nil(current.Subscription)

	// Deactivating again fails: the cancelled row is terminal
	_, err = s.subService.Deactivate(s.GetContext(), dto.DeactivateSubscriptionRequest{Reason: "again"})
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))
}

func (s *SubscriptionServiceSuite) TestDeactivateWithoutSubscriptionFails() {
	_, err := s.subService.Deactivate(s.GetContext(), dto.DeactivateSubscriptionRequest{Reason: "nothing to cancel"})
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))
}

func (s *SubscriptionServiceSuite) TestDeactivateWithoutReason() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	resp, err := s.subService.Deactivate(s.GetContext(), dto.DeactivateSubscriptionRequest{})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusCancelled, resp.SubscriptionStatus)
	s.Empty(resp.CancellationReason)
}

func (s *SubscriptionServiceSuite) TestResubscribeAfterCancellationCreatesNewRow() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	first, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	_, err = s.subService.Deactivate(s.GetContext(), dto.DeactivateSubscriptionRequest{Reason: "pause"})
	s.Require().NoError(err)

	second, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.NoError(err)
	s.NotEqual(first.ID, second.ID)
	s.Equal(types.SubscriptionStatusActive, second.SubscriptionStatus)
}

func (s *SubscriptionServiceSuite) TestSuspendAndReactivate() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	suspended, err := s.subService.Suspend(s.GetContext(), dto.SuspendSubscriptionRequest{
		Reason: "payment failed",
	})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusSuspended, suspended.SubscriptionStatus)

	// Suspending again fails: only ACTIVE can be suspended
	_, err = s.subService.Suspend(s.GetContext(), dto.SuspendSubscriptionRequest{Reason: "again"})
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))

	reactivated, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, reactivated.SubscriptionStatus)
	s.Equal(suspended.ID, reactivated.ID)

	// Resuming on the same plan is a renewal, not a re-activation
	history, err := s.subService.GetHistory(s.GetContext())
	s.NoError(err)
	s.Require().Len(history, 3)
	s.Equal(types.HistoryActionRenewed, history[2].Action)
}

func (s *SubscriptionServiceSuite) TestReactivateFromSuspensionOnPricierPlanIsUpgrade() {
	basic := s.createPlan("basic", 10, types.BillingCycleMonthly)
	premium := s.createPlan("premium", 30, types.BillingCycleMonthly)

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: basic.ID})
	s.Require().NoError(err)

	_, err = s.subService.Suspend(s.GetContext(), dto.SuspendSubscriptionRequest{Reason: "payment failed"})
	s.Require().NoError(err)

	resp, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: premium.ID})
	s.NoError(err)
	s.Equal(premium.ID, resp.PlanID)

	history, err := s.subService.GetHistory(s.GetContext())
	s.NoError(err)
	s.Require().Len(history, 3)
	s.Equal(types.HistoryActionUpgraded, history[2].Action)
}

func (s *SubscriptionServiceSuite) TestExpire() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	s.rewindNextBillingDate()

	resp, err := s.subService.Expire(s.GetContext())
	s.NoError(err)
	s.Equal(types.SubscriptionStatusExpired, resp.SubscriptionStatus)
	s.NotNil(resp.EndDate)

	current, err := s.subService.GetCurrent(s.GetContext())
	s.NoError(err)
	s.Nil(current.Subscription)
}

func (s *SubscriptionServiceSuite) TestExpireBeforeTermEndsFails() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	// The billing period is still running
	_, err = s.subService.Expire(s.GetContext())
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))

	current, err := s.subService.GetCurrent(s.GetContext())
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, current.SubscriptionStatus)
}

func (s *SubscriptionServiceSuite) TestExpirePendingFails() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	_, err := s.subService.CreatePending(s.GetContext(), dto.CreatePendingSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	_, err = s.subService.Expire(s.GetContext())
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))
}

func (s *SubscriptionServiceSuite) TestConcurrentActivationLeavesOneLiveRow() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	const workers = 8
	var wg sync.WaitGroup
	results := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		s.True(ierr.IsConcurrentModification(err) || ierr.IsInvalidTransition(err),
			"unexpected error: %v", err)
	}
	s.Equal(1, successes, "exactly one activation may win")

	current, err := s.subService.GetCurrent(s.GetContext())
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, current.SubscriptionStatus)
}

func (s *SubscriptionServiceSuite) TestGetCurrentWithoutSubscription() {
	current, err := s.subService.GetCurrent(s.GetContext())
	s.NoError(err)
	s.Require().NotNil(current)
	s.Nil(current.Subscription)
	s.Nil(current.Plan)
}

func (s *SubscriptionServiceSuite) TestGetCurrentIncludesPlan() {
	p := s.createPlan("pro", 10, types.BillingCycleMonthly)

	_, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: p.ID})
	s.Require().NoError(err)

	current, err := s.subService.GetCurrent(s.GetContext())
	s.NoError(err)
	s.Require().NotNil(current.Plan)
	s.Equal("pro", current.Plan.Code)
}

func (s *SubscriptionServiceSuite) TestQuarterlyAndYearlyBillingDates() {
	quarterly := s.createPlan("quarterly", 25, types.BillingCycleQuarterly)

	resp, err := s.subService.Activate(s.GetContext(), dto.ActivateSubscriptionRequest{PlanID: quarterly.ID})
	s.NoError(err)
	s.Require().NotNil(resp.NextBillingDate)
	expected := types.AddClampedDate(*resp.ActivatedAt, 0, 3, 0)
	s.True(resp.NextBillingDate.Equal(expected))
}

// rewindNextBillingDate pushes the live subscription's billing date into the
// past so a renewal becomes due.
func (s *SubscriptionServiceSuite) rewindNextBillingDate() {
	stores := s.GetStores()
	sub, err := stores.SubRepo.GetLive(s.GetContext())
	s.Require().NoError(err)

	past := time.Now().UTC().Add(-time.Hour)
	sub.NextBillingDate = &past

	entry := &subscription.HistoryEntry{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION_HISTORY),
		SubscriptionID: sub.ID,
		NewPlanID:      sub.PlanID,
		Action:         types.HistoryActionRenewed,
		Notes:          "billing date rewound for test",
		PerformedBy:    types.DefaultActorID,
		PerformedAt:    time.Now().UTC(),
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(stores.SubRepo.UpdateWithHistory(s.GetContext(), sub, entry))
}
