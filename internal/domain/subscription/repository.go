package subscription

import (
	"context"
)

// Repository defines the interface for subscription persistence. All mutation
// methods are atomic: the subscription row and its history entry commit as one
// unit, or not at all.
type Repository interface {
	// GetLive returns the tenant's single non-terminal subscription row,
	// or ErrNotFound when the tenant has none
	GetLive(ctx context.Context) (*Subscription, error)

	// Get returns a subscription by id regardless of state
	Get(ctx context.Context, id string) (*Subscription, error)

	// CreateWithHistory inserts a new subscription row together with its first
	// history entry. Fails with ErrConcurrentModification when another live
	// row already occupies the tenant's slot.
	CreateWithHistory(ctx context.Context, sub *Subscription, entry *HistoryEntry) error

	// UpdateWithHistory applies a mutation to the subscription row together
	// with the history entry recording it. The update is guarded by the row
	// version; a stale version fails with ErrConcurrentModification.
	UpdateWithHistory(ctx context.Context, sub *Subscription, entry *HistoryEntry) error

	// ListHistory returns the tenant's full history, oldest first
	ListHistory(ctx context.Context) ([]*HistoryEntry, error)
}
