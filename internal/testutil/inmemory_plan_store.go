package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/sellerdesk/backoffice/internal/domain/plan"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
)

type InMemoryPlanStore struct {
	mu    sync.RWMutex
	plans map[string]*plan.Plan
	order []string
}

func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		plans: make(map[string]*plan.Plan),
	}
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.plans {
		if existing.Code == p.Code {
			return ierr.NewError("plan code already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	cp := *p
	s.plans[p.ID] = &cp
	s.order = append(s.order, p.ID)
	return nil
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.plans[id]
	if !exists {
		return nil, ierr.NewError("plan not found").
			Mark(ierr.ErrPlanNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *InMemoryPlanStore) GetByCode(ctx context.Context, code string) (*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.plans {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ierr.NewError("plan not found").
		Mark(ierr.ErrPlanNotFound)
}

func (s *InMemoryPlanStore) List(ctx context.Context) ([]*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked(func(p *plan.Plan) bool { return true }), nil
}

func (s *InMemoryPlanStore) ListActive(ctx context.Context) ([]*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked(func(p *plan.Plan) bool { return p.Active }), nil
}

func (s *InMemoryPlanStore) Update(ctx context.Context, p *plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.plans[p.ID]; !exists {
		return ierr.NewError("plan not found").
			Mark(ierr.ErrPlanNotFound)
	}
	cp := *p
	s.plans[p.ID] = &cp
	return nil
}

func (s *InMemoryPlanStore) SetStandard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, exists := s.plans[id]
	if !exists {
		return ierr.NewError("plan not found").
			Mark(ierr.ErrPlanNotFound)
	}

	for _, p := range s.plans {
		p.Standard = false
	}
	target.Standard = true
	return nil
}

func (s *InMemoryPlanStore) GetStandard(ctx context.Context) (*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.plans {
		if p.Standard {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ierr.NewError("no standard plan configured").
		Mark(ierr.ErrPlanNotFound)
}

func (s *InMemoryPlanStore) listLocked(keep func(*plan.Plan) bool) []*plan.Plan {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	sort.SliceStable(ids, func(i, j int) bool {
		return s.plans[ids[i]].CreatedAt.Before(s.plans[ids[j]].CreatedAt)
	})

	var result []*plan.Plan
	for _, id := range ids {
		p := s.plans[id]
		if keep(p) {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result
}

func (s *InMemoryPlanStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans = make(map[string]*plan.Plan)
	s.order = nil
}
