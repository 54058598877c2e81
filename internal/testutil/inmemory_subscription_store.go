package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/sellerdesk/backoffice/internal/domain/subscription"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/types"
)

// InMemorySubscriptionStore mirrors the storage-level guarantees the service
// relies on: at most one live row per tenant, version-guarded updates, and the
// subscription row and history entry committing together.
type InMemorySubscriptionStore struct {
	mu            sync.Mutex
	subscriptions map[string]*subscription.Subscription
	history       []*subscription.HistoryEntry
}

func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		subscriptions: make(map[string]*subscription.Subscription),
	}
}

func (s *InMemorySubscriptionStore) GetLive(ctx context.Context) (*subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := s.liveForTenantLocked(types.GetTenantID(ctx))
	if sub == nil {
		return nil, ierr.NewError("subscription not found").
			Mark(ierr.ErrNotFound)
	}
	cp := *sub
	return &cp, nil
}

func (s *InMemorySubscriptionStore) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.subscriptions[id]
	if !exists || sub.TenantID != types.GetTenantID(ctx) {
		return nil, ierr.NewError("subscription not found").
			Mark(ierr.ErrNotFound)
	}
	cp := *sub
	return &cp, nil
}

func (s *InMemorySubscriptionStore) CreateWithHistory(ctx context.Context, sub *subscription.Subscription, entry *subscription.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.liveForTenantLocked(sub.TenantID); existing != nil && sub.IsLive() {
		return ierr.NewError("another live subscription already exists for the tenant").
			Mark(ierr.ErrConcurrentModification)
	}

	cp := *sub
	s.subscriptions[sub.ID] = &cp

	entryCp := *entry
	s.history = append(s.history, &entryCp)
	return nil
}

func (s *InMemorySubscriptionStore) UpdateWithHistory(ctx context.Context, sub *subscription.Subscription, entry *subscription.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.subscriptions[sub.ID]
	if !exists || stored.TenantID != types.GetTenantID(ctx) {
		return ierr.NewError("subscription not found").
			Mark(ierr.ErrNotFound)
	}

	if stored.Version != sub.Version {
		return ierr.NewError("subscription was modified concurrently").
			Mark(ierr.ErrConcurrentModification)
	}

	cp := *sub
	cp.Version++
	s.subscriptions[sub.ID] = &cp
	sub.Version++

	entryCp := *entry
	s.history = append(s.history, &entryCp)
	return nil
}

func (s *InMemorySubscriptionStore) ListHistory(ctx context.Context) ([]*subscription.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenantID := types.GetTenantID(ctx)
	var result []*subscription.HistoryEntry
	for _, entry := range s.history {
		if entry.TenantID == tenantID {
			cp := *entry
			result = append(result, &cp)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].PerformedAt.Equal(result[j].PerformedAt) {
			return result[i].PerformedAt.Before(result[j].PerformedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (s *InMemorySubscriptionStore) liveForTenantLocked(tenantID string) *subscription.Subscription {
	for _, sub := range s.subscriptions {
		if sub.TenantID == tenantID && sub.IsLive() {
			return sub
		}
	}
	return nil
}

func (s *InMemorySubscriptionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions = make(map[string]*subscription.Subscription)
	s.history = nil
}
