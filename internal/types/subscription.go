package types

import (
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/samber/lo"
)

// SubscriptionStatus represents the lifecycle state of a tenant subscription
type SubscriptionStatus string

const (
	SubscriptionStatusPendingActivation SubscriptionStatus = "PENDING_ACTIVATION"
	SubscriptionStatusActive            SubscriptionStatus = "ACTIVE"
	SubscriptionStatusCancelled         SubscriptionStatus = "CANCELLED"
	SubscriptionStatusSuspended         SubscriptionStatus = "SUSPENDED"
	SubscriptionStatusExpired           SubscriptionStatus = "EXPIRED"
)

// IsTerminal reports whether the status admits no further transitions.
// A tenant must create a new subscription row to re-subscribe.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusCancelled || s == SubscriptionStatusExpired
}

func (s SubscriptionStatus) Validate() error {
	allowedValues := []string{
		string(SubscriptionStatusPendingActivation),
		string(SubscriptionStatusActive),
		string(SubscriptionStatusCancelled),
		string(SubscriptionStatusSuspended),
		string(SubscriptionStatusExpired),
	}
	if !lo.Contains(allowedValues, string(s)) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"status":  s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// HistoryAction represents the action recorded in a subscription history entry
type HistoryAction string

const (
	HistoryActionCreated    HistoryAction = "CREATED"
	HistoryActionActivated  HistoryAction = "ACTIVATED"
	HistoryActionUpgraded   HistoryAction = "UPGRADED"
	HistoryActionDowngraded HistoryAction = "DOWNGRADED"
	HistoryActionRenewed    HistoryAction = "RENEWED"
	HistoryActionCancelled  HistoryAction = "CANCELLED"
	HistoryActionSuspended  HistoryAction = "SUSPENDED"
	HistoryActionExpired    HistoryAction = "EXPIRED"
)

func (a HistoryAction) Validate() error {
	allowedValues := []string{
		string(HistoryActionCreated),
		string(HistoryActionActivated),
		string(HistoryActionUpgraded),
		string(HistoryActionDowngraded),
		string(HistoryActionRenewed),
		string(HistoryActionCancelled),
		string(HistoryActionSuspended),
		string(HistoryActionExpired),
	}
	if !lo.Contains(allowedValues, string(a)) {
		return ierr.NewError("invalid history action").
			WithHint("Invalid subscription history action").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"action":  a,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingCycle represents the recurrence of a subscription plan
type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "MONTHLY"
	BillingCycleQuarterly BillingCycle = "QUARTERLY"
	BillingCycleYearly    BillingCycle = "YEARLY"
)

func (c BillingCycle) Validate() error {
	allowedValues := []string{
		string(BillingCycleMonthly),
		string(BillingCycleQuarterly),
		string(BillingCycleYearly),
	}
	if !lo.Contains(allowedValues, string(c)) {
		return ierr.NewError("invalid billing cycle").
			WithHint("Billing cycle must be one of MONTHLY, QUARTERLY or YEARLY").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"cycle":   c,
			}).
			Mark(ierr.ErrInvalidPlanConfiguration)
	}
	return nil
}
