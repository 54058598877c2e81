package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/sellerdesk/backoffice/internal/domain/platformconfig"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/types"
)

type InMemoryPlatformConfigStore struct {
	mu      sync.RWMutex
	configs map[types.ConfigKey]*platformconfig.Config
}

func NewInMemoryPlatformConfigStore() *InMemoryPlatformConfigStore {
	return &InMemoryPlatformConfigStore{
		configs: make(map[types.ConfigKey]*platformconfig.Config),
	}
}

func (s *InMemoryPlatformConfigStore) Get(ctx context.Context, key types.ConfigKey) (*platformconfig.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.configs[key]
	if !exists {
		return nil, ierr.NewErrorf("no platform config for key %s", key).
			Mark(ierr.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *InMemoryPlatformConfigStore) Upsert(ctx context.Context, c *platformconfig.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.configs[c.Key] = &cp
	return nil
}

func (s *InMemoryPlatformConfigStore) List(ctx context.Context) ([]*platformconfig.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*platformconfig.Config
	for _, c := range s.configs {
		cp := *c
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result, nil
}

func (s *InMemoryPlatformConfigStore) Delete(ctx context.Context, key types.ConfigKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.configs[key]; !exists {
		return ierr.NewErrorf("no platform config for key %s", key).
			Mark(ierr.ErrNotFound)
	}
	delete(s.configs, key)
	return nil
}

func (s *InMemoryPlatformConfigStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs = make(map[types.ConfigKey]*platformconfig.Config)
}
