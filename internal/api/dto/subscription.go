package dto

import (
	"github.com/sellerdesk/backoffice/internal/domain/subscription"
	"github.com/sellerdesk/backoffice/internal/validator"
	"github.com/shopspring/decimal"
)

type CreatePendingSubscriptionRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
	Notes  string `json:"notes,omitempty"`
}

func (r *CreatePendingSubscriptionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type ActivateSubscriptionRequest struct {
	PlanID string `json:"plan_id" validate:"required"`

	// PricePaid overrides the plan's effective price when set, e.g. for a
	// negotiated deal. Nil means charge the effective price.
	PricePaid        *decimal.Decimal `json:"price_paid,omitempty"`
	PaymentReference string           `json:"payment_reference,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

func (r *ActivateSubscriptionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type DeactivateSubscriptionRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (r *DeactivateSubscriptionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type SuspendSubscriptionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (r *SuspendSubscriptionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type SubscriptionResponse struct {
	*subscription.Subscription
	Plan *PlanResponse `json:"plan,omitempty"`
}

func NewSubscriptionResponse(sub *subscription.Subscription) *SubscriptionResponse {
	return &SubscriptionResponse{Subscription: sub}
}

func (r *SubscriptionResponse) WithPlan(p *PlanResponse) *SubscriptionResponse {
	r.Plan = p
	return r
}

type SubscriptionHistoryResponse struct {
	*subscription.HistoryEntry
}

func NewSubscriptionHistoryResponse(entry *subscription.HistoryEntry) *SubscriptionHistoryResponse {
	return &SubscriptionHistoryResponse{HistoryEntry: entry}
}
