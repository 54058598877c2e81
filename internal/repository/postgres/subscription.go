package postgres

import (
	"context"

	"github.com/sellerdesk/backoffice/internal/domain/subscription"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/logger"
	"github.com/sellerdesk/backoffice/internal/postgres"
	"github.com/sellerdesk/backoffice/internal/types"
)

type subscriptionRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewSubscriptionRepository creates a new instance of subscription repository
func NewSubscriptionRepository(db postgres.IClient, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{
		db:     db,
		logger: logger,
	}
}

// GetLive retrieves the tenant's single non-terminal subscription row
func (r *subscriptionRepository) GetLive(ctx context.Context) (*subscription.Subscription, error) {
	query := `
		SELECT * FROM tenant_subscriptions
		WHERE tenant_id = :tenant_id
		AND subscription_status IN (:pending, :active, :suspended)
		AND status = :status`

	params := map[string]interface{}{
		"tenant_id": types.GetTenantID(ctx),
		"pending":   types.SubscriptionStatusPendingActivation,
		"active":    types.SubscriptionStatusActive,
		"suspended": types.SubscriptionStatusSuspended,
		"status":    types.StatusPublished,
	}

	return r.queryOne(ctx, query, params)
}

// Get retrieves a subscription by id regardless of state
func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	query := `
		SELECT * FROM tenant_subscriptions
		WHERE id = :id
		AND tenant_id = :tenant_id
		AND status = :status`

	params := map[string]interface{}{
		"id":        id,
		"tenant_id": types.GetTenantID(ctx),
		"status":    types.StatusPublished,
	}

	return r.queryOne(ctx, query, params)
}

// CreateWithHistory inserts the subscription row and its first history entry
// as one atomic unit. The partial unique index on live statuses makes the
// loser of a concurrent creation race fail cleanly.
func (r *subscriptionRepository) CreateWithHistory(ctx context.Context, sub *subscription.Subscription, entry *subscription.HistoryEntry) error {
	return r.db.WithTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO tenant_subscriptions (
				id, plan_id, subscription_status, start_date, end_date, next_billing_date,
				price_paid, payment_reference, activated_by, activated_at,
				cancelled_at, cancellation_reason, version,
				tenant_id, status, created_at, updated_at, created_by, updated_by
			) VALUES (
				:id, :plan_id, :subscription_status, :start_date, :end_date, :next_billing_date,
				:price_paid, :payment_reference, :activated_by, :activated_at,
				:cancelled_at, :cancellation_reason, :version,
				:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
			)`

		if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
			if isUniqueViolation(err) {
				return ierr.WithError(err).
					WithHint("Another live subscription already exists for the tenant").
					Mark(ierr.ErrConcurrentModification)
			}
			return ierr.WithError(err).
				WithHint("Failed to create subscription").
				Mark(ierr.ErrDatabase)
		}

		return r.insertHistory(ctx, entry)
	})
}

// UpdateWithHistory applies a mutation guarded by the row version and appends
// the history entry recording it, atomically.
func (r *subscriptionRepository) UpdateWithHistory(ctx context.Context, sub *subscription.Subscription, entry *subscription.HistoryEntry) error {
	return r.db.WithTx(ctx, func(ctx context.Context) error {
		query := `
			UPDATE tenant_subscriptions
			SET
				plan_id = :plan_id,
				subscription_status = :subscription_status,
				start_date = :start_date,
				end_date = :end_date,
				next_billing_date = :next_billing_date,
				price_paid = :price_paid,
				payment_reference = :payment_reference,
				activated_by = :activated_by,
				activated_at = :activated_at,
				cancelled_at = :cancelled_at,
				cancellation_reason = :cancellation_reason,
				version = version + 1,
				updated_at = NOW(),
				updated_by = :updated_by
			WHERE id = :id
			AND tenant_id = :tenant_id
			AND version = :version
			AND status = :status`

		params := map[string]interface{}{
			"id":                  sub.ID,
			"plan_id":             sub.PlanID,
			"subscription_status": sub.SubscriptionStatus,
			"start_date":          sub.StartDate,
			"end_date":            sub.EndDate,
			"next_billing_date":   sub.NextBillingDate,
			"price_paid":          sub.PricePaid,
			"payment_reference":   sub.PaymentReference,
			"activated_by":        sub.ActivatedBy,
			"activated_at":        sub.ActivatedAt,
			"cancelled_at":        sub.CancelledAt,
			"cancellation_reason": sub.CancellationReason,
			"version":             sub.Version,
			"updated_by":          types.GetActorID(ctx),
			"tenant_id":           types.GetTenantID(ctx),
			"status":              types.StatusPublished,
		}

		result, err := r.db.NamedExecContext(ctx, query, params)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to update subscription").
				Mark(ierr.ErrDatabase)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return ierr.WithError(err).Mark(ierr.ErrDatabase)
		}

		if affected == 0 {
			return ierr.NewError("subscription was modified concurrently").
				WithHint("The subscription changed underneath this operation; retry it").
				WithReportableDetails(map[string]any{
					"subscription_id": sub.ID,
					"version":         sub.Version,
				}).
				Mark(ierr.ErrConcurrentModification)
		}

		sub.Version++

		return r.insertHistory(ctx, entry)
	})
}

// ListHistory retrieves the tenant's full history, oldest first
func (r *subscriptionRepository) ListHistory(ctx context.Context) ([]*subscription.HistoryEntry, error) {
	query := `
		SELECT * FROM subscription_history
		WHERE tenant_id = :tenant_id
		AND status = :status
		ORDER BY performed_at ASC, id ASC`

	params := map[string]interface{}{
		"tenant_id": types.GetTenantID(ctx),
		"status":    types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query subscription history").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var entries []*subscription.HistoryEntry
	for rows.Next() {
		var entry subscription.HistoryEntry
		if err := rows.StructScan(&entry); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan history entry").
				Mark(ierr.ErrDatabase)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}

	return entries, nil
}

func (r *subscriptionRepository) insertHistory(ctx context.Context, entry *subscription.HistoryEntry) error {
	query := `
		INSERT INTO subscription_history (
			id, subscription_id, old_plan_id, new_plan_id, action, notes,
			performed_by, performed_at,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :subscription_id, :old_plan_id, :new_plan_id, :action, :notes,
			:performed_by, :performed_at,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to append subscription history").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *subscriptionRepository) queryOne(ctx context.Context, query string, params map[string]interface{}) (*subscription.Subscription, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query subscription").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("subscription not found").
			Mark(ierr.ErrNotFound)
	}

	var sub subscription.Subscription
	if err := rows.StructScan(&sub); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan subscription").
			Mark(ierr.ErrDatabase)
	}
	return &sub, nil
}
