package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/sellerdesk/backoffice/internal/domain/feature"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
)

type InMemoryFeatureStore struct {
	mu       sync.RWMutex
	features map[string]*feature.Feature
}

func NewInMemoryFeatureStore() *InMemoryFeatureStore {
	return &InMemoryFeatureStore{
		features: make(map[string]*feature.Feature),
	}
}

func (s *InMemoryFeatureStore) Create(ctx context.Context, f *feature.Feature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.features {
		if existing.Code == f.Code {
			return ierr.NewError("feature code already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	cp := *f
	s.features[f.ID] = &cp
	return nil
}

func (s *InMemoryFeatureStore) Get(ctx context.Context, id string) (*feature.Feature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, exists := s.features[id]
	if !exists {
		return nil, ierr.NewError("feature not found").
			Mark(ierr.ErrNotFound)
	}
	cp := *f
	return &cp, nil
}

func (s *InMemoryFeatureStore) GetByCode(ctx context.Context, code string) (*feature.Feature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.features {
		if f.Code == code {
			cp := *f
			return &cp, nil
		}
	}
	return nil, ierr.NewError("feature not found").
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryFeatureStore) List(ctx context.Context) ([]*feature.Feature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*feature.Feature
	for _, f := range s.features {
		cp := *f
		result = append(result, &cp)
	}
	sortFeatures(result)
	return result, nil
}

func (s *InMemoryFeatureStore) ListByIDs(ctx context.Context, ids []string) ([]*feature.Feature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*feature.Feature
	for _, id := range ids {
		if f, exists := s.features[id]; exists {
			cp := *f
			result = append(result, &cp)
		}
	}
	sortFeatures(result)
	return result, nil
}

func (s *InMemoryFeatureStore) Update(ctx context.Context, f *feature.Feature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.features[f.ID]; !exists {
		return ierr.NewError("feature not found").
			Mark(ierr.ErrNotFound)
	}
	cp := *f
	s.features[f.ID] = &cp
	return nil
}

func sortFeatures(features []*feature.Feature) {
	sort.SliceStable(features, func(i, j int) bool {
		if features[i].DisplayOrder != features[j].DisplayOrder {
			return features[i].DisplayOrder < features[j].DisplayOrder
		}
		return features[i].Code < features[j].Code
	})
}

func (s *InMemoryFeatureStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features = make(map[string]*feature.Feature)
}
