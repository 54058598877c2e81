package subscription

import (
	"time"

	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/shopspring/decimal"
)

// Subscription is the live subscription row for a tenant. At most one row per
// tenant may be in a non-terminal state at any time; the append-only history
// is the source of truth and this row is a rebuildable projection of it.
type Subscription struct {
	ID                 string                   `db:"id" json:"id"`
	PlanID             string                   `db:"plan_id" json:"plan_id"`
	SubscriptionStatus types.SubscriptionStatus `db:"subscription_status" json:"subscription_status"`
	StartDate          time.Time                `db:"start_date" json:"start_date"`
	EndDate            *time.Time               `db:"end_date" json:"end_date,omitempty"`
	NextBillingDate    *time.Time               `db:"next_billing_date" json:"next_billing_date,omitempty"`
	PricePaid          decimal.Decimal          `db:"price_paid" json:"price_paid"`
	PaymentReference   string                   `db:"payment_reference" json:"payment_reference,omitempty"`
	ActivatedBy        string                   `db:"activated_by" json:"activated_by,omitempty"`
	ActivatedAt        *time.Time               `db:"activated_at" json:"activated_at,omitempty"`
	CancelledAt        *time.Time               `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CancellationReason string                   `db:"cancellation_reason" json:"cancellation_reason,omitempty"`

	// Version backs the optimistic concurrency check on mutations
	Version int `db:"version" json:"version"`

	types.BaseModel
}

func (s *Subscription) TableName() string {
	return "tenant_subscriptions"
}

// IsLive reports whether the row occupies the tenant's single live slot
func (s *Subscription) IsLive() bool {
	return !s.SubscriptionStatus.IsTerminal()
}

func (s *Subscription) Validate() error {
	if err := s.SubscriptionStatus.Validate(); err != nil {
		return err
	}

	if s.SubscriptionStatus == types.SubscriptionStatusActive {
		if s.ActivatedAt == nil || s.ActivatedBy == "" {
			return ierr.NewError("active subscription missing activation audit fields").
				WithHint("Active subscriptions must record who activated them and when").
				Mark(ierr.ErrValidation)
		}
		if s.EndDate != nil && !s.EndDate.After(time.Now().UTC()) {
			return ierr.NewError("active subscription has an end date in the past").
				WithHint("An active subscription's end date must be in the future").
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}
