package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/sellerdesk/backoffice/internal/api/dto"
	"github.com/sellerdesk/backoffice/internal/domain/plan"
	"github.com/sellerdesk/backoffice/internal/domain/subscription"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/metrics"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/shopspring/decimal"
)

// SubscriptionService drives the tenant subscription lifecycle. Every
// transition commits the subscription row and its history entry atomically,
// and the version guard turns lost races into ErrConcurrentModification.
type SubscriptionService interface {
	GetCurrent(ctx context.Context) (*dto.SubscriptionResponse, error)
	CreatePending(ctx context.Context, req dto.CreatePendingSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Activate(ctx context.Context, req dto.ActivateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Deactivate(ctx context.Context, req dto.DeactivateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Suspend(ctx context.Context, req dto.SuspendSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Expire(ctx context.Context) (*dto.SubscriptionResponse, error)
	GetHistory(ctx context.Context) ([]*dto.SubscriptionHistoryResponse, error)
}

type subscriptionService struct {
	ServiceParams
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
	}
}

func (s *subscriptionService) GetCurrent(ctx context.Context) (*dto.SubscriptionResponse, error) {
	if err := types.ValidateTenantContext(ctx); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrValidation)
	}

	sub, err := s.SubRepo.GetLive(ctx)
	if err != nil {
		if ierr.IsNotFound(err) {
			// Having no subscription is a normal state, not an error
			return &dto.SubscriptionResponse{}, nil
		}
		return nil, err
	}

	resp := dto.NewSubscriptionResponse(sub)

	p, err := s.PlanRepo.Get(ctx, sub.PlanID)
	if err == nil {
		resp.WithPlan(dto.NewPlanResponse(p))
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	return resp, nil
}

// CreatePending reserves the tenant's live slot with a subscription awaiting
// payment confirmation. Activation finishes the job.
func (s *subscriptionService) CreatePending(ctx context.Context, req dto.CreatePendingSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := types.ValidateTenantContext(ctx); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrValidation)
	}

	p, err := s.availablePlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.SubRepo.GetLive(ctx); err == nil {
		return nil, ierr.NewError("tenant already has a live subscription").
			WithHint("Deactivate the current subscription before creating a new one").
			WithReportableDetails(map[string]any{
				"subscription_id": existing.ID,
				"status":          existing.SubscriptionStatus,
			}).
			Mark(ierr.ErrInvalidTransition)
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		PlanID:             p.ID,
		SubscriptionStatus: types.SubscriptionStatusPendingActivation,
		StartDate:          now,
		PricePaid:          p.EffectivePrice(),
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}

	entry := s.newHistoryEntry(ctx, sub, nil, types.HistoryActionCreated, req.Notes)

	if err := s.SubRepo.CreateWithHistory(ctx, sub, entry); err != nil {
		return nil, err
	}

	s.recordTransition(ctx, sub, types.HistoryActionCreated)

	return dto.NewSubscriptionResponse(sub).WithPlan(dto.NewPlanResponse(p)), nil
}

// Activate applies the requested plan to the tenant. Depending on the current
// state this is a first activation, the completion of a pending subscription,
// a reactivation after suspension, a renewal, or a plan change classified as
// an upgrade or downgrade by effective price.
func (s *subscriptionService) Activate(ctx context.Context, req dto.ActivateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := types.ValidateTenantContext(ctx); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrValidation)
	}

	p, err := s.availablePlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	current, err := s.SubRepo.GetLive(ctx)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		return s.activateFresh(ctx, p, req, now)
	}

	var action types.HistoryAction
	switch current.SubscriptionStatus {
	case types.SubscriptionStatusPendingActivation:
		action = types.HistoryActionActivated
	case types.SubscriptionStatusSuspended:
		// Reactivating on the same plan resumes the subscription as a renewal;
		// picking a different plan is a plan change like any other
		if current.PlanID == p.ID {
			action = types.HistoryActionRenewed
		} else {
			action, err = s.classifyPlanChange(ctx, current.PlanID, p)
			if err != nil {
				return nil, err
			}
		}
	case types.SubscriptionStatusActive:
		action, err = s.classifyActiveTransition(ctx, current, p, now)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ierr.NewErrorf("cannot activate from status %s", current.SubscriptionStatus).
			Mark(ierr.ErrInvalidTransition)
	}

	oldPlanID := current.PlanID

	nextBilling, err := types.NextBillingDate(now, p.BillingCycle)
	if err != nil {
		return nil, err
	}

	current.PlanID = p.ID
	current.SubscriptionStatus = types.SubscriptionStatusActive
	current.NextBillingDate = &nextBilling
	current.PricePaid = effectivePricePaid(p, req)
	current.PaymentReference = req.PaymentReference
	current.ActivatedBy = types.GetActorID(ctx)
	current.ActivatedAt = &now
	current.CancelledAt = nil
	current.CancellationReason = ""

	if err := current.Validate(); err != nil {
		return nil, err
	}

	entry := s.newHistoryEntry(ctx, current, &oldPlanID, action, req.Notes)

	if err := s.SubRepo.UpdateWithHistory(ctx, current, entry); err != nil {
		return nil, err
	}

	s.recordTransition(ctx, current, action)

	return dto.NewSubscriptionResponse(current).WithPlan(dto.NewPlanResponse(p)), nil
}

// Deactivate cancels the tenant's live subscription. Cancellation is terminal;
// re-subscribing creates a fresh row.
func (s *subscriptionService) Deactivate(ctx context.Context, req dto.DeactivateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := types.ValidateTenantContext(ctx); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrValidation)
	}

	current, err := s.SubRepo.GetLive(ctx)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.WithError(err).
				WithHint("There is no live subscription to deactivate").
				Mark(ierr.ErrInvalidTransition)
		}
		return nil, err
	}

	now := time.Now().UTC()
	oldPlanID := current.PlanID

	current.SubscriptionStatus = types.SubscriptionStatusCancelled
	current.CancelledAt = &now
	current.CancellationReason = req.Reason
	current.EndDate = &now

	entry := s.newHistoryEntry(ctx, current, &oldPlanID, types.HistoryActionCancelled, req.Reason)

	if err := s.SubRepo.UpdateWithHistory(ctx, current, entry); err != nil {
		return nil, err
	}

	s.recordTransition(ctx, current, types.HistoryActionCancelled)

	return dto.NewSubscriptionResponse(current), nil
}

// Suspend parks an active subscription without ending it. Only ACTIVE
// subscriptions can be suspended.
func (s *subscriptionService) Suspend(ctx context.Context, req dto.SuspendSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := types.ValidateTenantContext(ctx); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrValidation)
	}

	current, err := s.SubRepo.GetLive(ctx)
	if err != nil {
		return nil, err
	}

	if current.SubscriptionStatus != types.SubscriptionStatusActive {
		return nil, ierr.NewErrorf("cannot suspend subscription in status %s", current.SubscriptionStatus).
			WithHint("Only active subscriptions can be suspended").
			Mark(ierr.ErrInvalidTransition)
	}

	oldPlanID := current.PlanID
	current.SubscriptionStatus = types.SubscriptionStatusSuspended

	entry := s.newHistoryEntry(ctx, current, &oldPlanID, types.HistoryActionSuspended, req.Reason)

	if err := s.SubRepo.UpdateWithHistory(ctx, current, entry); err != nil {
		return nil, err
	}

	s.recordTransition(ctx, current, types.HistoryActionSuspended)

	return dto.NewSubscriptionResponse(current), nil
}

// Expire ends an active or suspended subscription whose term has run out.
func (s *subscriptionService) Expire(ctx context.Context) (*dto.SubscriptionResponse, error) {
	if err := types.ValidateTenantContext(ctx); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrValidation)
	}

	current, err := s.SubRepo.GetLive(ctx)
	if err != nil {
		return nil, err
	}

	if current.SubscriptionStatus == types.SubscriptionStatusPendingActivation {
		return nil, ierr.NewError("pending subscriptions cannot expire").
			WithHint("Activate or deactivate the pending subscription instead").
			Mark(ierr.ErrInvalidTransition)
	}

	now := time.Now().UTC()

	due := (current.EndDate != nil && !now.Before(*current.EndDate)) ||
		(current.NextBillingDate != nil && !now.Before(*current.NextBillingDate))
	if !due {
		return nil, ierr.NewError("subscription term has not ended").
			WithHint("A subscription can expire only once its end date or billing date has passed").
			WithReportableDetails(map[string]any{
				"end_date":          current.EndDate,
				"next_billing_date": current.NextBillingDate,
			}).
			Mark(ierr.ErrInvalidTransition)
	}

	oldPlanID := current.PlanID

	current.SubscriptionStatus = types.SubscriptionStatusExpired
	current.EndDate = &now

	entry := s.newHistoryEntry(ctx, current, &oldPlanID, types.HistoryActionExpired, "")

	if err := s.SubRepo.UpdateWithHistory(ctx, current, entry); err != nil {
		return nil, err
	}

	s.recordTransition(ctx, current, types.HistoryActionExpired)

	return dto.NewSubscriptionResponse(current), nil
}

func (s *subscriptionService) GetHistory(ctx context.Context) ([]*dto.SubscriptionHistoryResponse, error) {
	if err := types.ValidateTenantContext(ctx); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrValidation)
	}

	entries, err := s.SubRepo.ListHistory(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(entries, func(e *subscription.HistoryEntry, _ int) *dto.SubscriptionHistoryResponse {
		return dto.NewSubscriptionHistoryResponse(e)
	}), nil
}

// activateFresh creates a brand new active subscription for a tenant with no
// live row. A concurrent creation race is resolved by the storage layer: the
// loser gets ErrConcurrentModification.
func (s *subscriptionService) activateFresh(ctx context.Context, p *plan.Plan, req dto.ActivateSubscriptionRequest, now time.Time) (*dto.SubscriptionResponse, error) {
	nextBilling, err := types.NextBillingDate(now, p.BillingCycle)
	if err != nil {
		return nil, err
	}

	sub := &subscription.Subscription{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		PlanID:             p.ID,
		SubscriptionStatus: types.SubscriptionStatusActive,
		StartDate:          now,
		NextBillingDate:    &nextBilling,
		PricePaid:          effectivePricePaid(p, req),
		PaymentReference:   req.PaymentReference,
		ActivatedBy:        types.GetActorID(ctx),
		ActivatedAt:        &now,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}

	entry := s.newHistoryEntry(ctx, sub, nil, types.HistoryActionActivated, req.Notes)

	if err := s.SubRepo.CreateWithHistory(ctx, sub, entry); err != nil {
		return nil, err
	}

	s.recordTransition(ctx, sub, types.HistoryActionActivated)

	return dto.NewSubscriptionResponse(sub).WithPlan(dto.NewPlanResponse(p)), nil
}

// classifyActiveTransition decides what activating a plan means for an already
// active subscription. A different plan is an upgrade or downgrade by effective
// price; the same plan is a renewal, allowed only once the billing date has
// been reached.
func (s *subscriptionService) classifyActiveTransition(ctx context.Context, current *subscription.Subscription, target *plan.Plan, now time.Time) (types.HistoryAction, error) {
	if current.PlanID == target.ID {
		if current.NextBillingDate == nil || now.Before(*current.NextBillingDate) {
			return "", ierr.NewError("subscription is not due for renewal").
				WithHint("The current billing period has not ended yet").
				WithReportableDetails(map[string]any{
					"next_billing_date": current.NextBillingDate,
				}).
				Mark(ierr.ErrInvalidTransition)
		}
		return types.HistoryActionRenewed, nil
	}

	return s.classifyPlanChange(ctx, current.PlanID, target)
}

// classifyPlanChange compares the effective prices of the current and target
// plans: more expensive is an upgrade, cheaper a downgrade, equal a renewal.
func (s *subscriptionService) classifyPlanChange(ctx context.Context, currentPlanID string, target *plan.Plan) (types.HistoryAction, error) {
	currentPlan, err := s.PlanRepo.Get(ctx, currentPlanID)
	if err != nil {
		return "", err
	}

	currentPrice := currentPlan.EffectivePrice()
	targetPrice := target.EffectivePrice()

	switch {
	case targetPrice.GreaterThan(currentPrice):
		return types.HistoryActionUpgraded, nil
	case targetPrice.LessThan(currentPrice):
		return types.HistoryActionDowngraded, nil
	default:
		return types.HistoryActionRenewed, nil
	}
}

// availablePlan loads the plan and verifies it can be subscribed to right now
func (s *subscriptionService) availablePlan(ctx context.Context, planID string) (*plan.Plan, error) {
	p, err := s.PlanRepo.Get(ctx, planID)
	if err != nil {
		return nil, err
	}

	if !p.IsAvailableAt(time.Now().UTC()) {
		return nil, ierr.NewError("plan is not available").
			WithHint("The plan is inactive or outside its validity window").
			WithReportableDetails(map[string]any{
				"plan_id": p.ID,
				"code":    p.Code,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	return p, nil
}

func (s *subscriptionService) newHistoryEntry(ctx context.Context, sub *subscription.Subscription, oldPlanID *string, action types.HistoryAction, notes string) *subscription.HistoryEntry {
	return &subscription.HistoryEntry{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION_HISTORY),
		SubscriptionID: sub.ID,
		OldPlanID:      oldPlanID,
		NewPlanID:      sub.PlanID,
		Action:         action,
		Notes:          notes,
		PerformedBy:    types.GetActorID(ctx),
		PerformedAt:    time.Now().UTC(),
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

// recordTransition updates metrics and emits the audit event for a committed
// transition
func (s *subscriptionService) recordTransition(ctx context.Context, sub *subscription.Subscription, action types.HistoryAction) {
	metrics.SubscriptionTransitionsTotal.WithLabelValues(string(action)).Inc()

	s.Logger.Infow("subscription transition",
		"subscription_id", sub.ID,
		"tenant_id", sub.TenantID,
		"plan_id", sub.PlanID,
		"action", action,
		"status", sub.SubscriptionStatus,
	)

	s.AuditEmitter.Emit(ctx, auditEventForAction(action), sub.ID, sub)
}

func auditEventForAction(action types.HistoryAction) types.AuditEventName {
	switch action {
	case types.HistoryActionCreated:
		return types.AuditEventSubscriptionCreated
	case types.HistoryActionActivated:
		return types.AuditEventSubscriptionActivated
	case types.HistoryActionUpgraded, types.HistoryActionDowngraded:
		return types.AuditEventSubscriptionPlanChanged
	case types.HistoryActionRenewed:
		return types.AuditEventSubscriptionRenewed
	case types.HistoryActionCancelled:
		return types.AuditEventSubscriptionCancelled
	case types.HistoryActionSuspended:
		return types.AuditEventSubscriptionSuspended
	case types.HistoryActionExpired:
		return types.AuditEventSubscriptionExpired
	default:
		return types.AuditEventSubscriptionActivated
	}
}

func effectivePricePaid(p *plan.Plan, req dto.ActivateSubscriptionRequest) decimal.Decimal {
	if req.PricePaid != nil {
		return *req.PricePaid
	}
	return p.EffectivePrice()
}
