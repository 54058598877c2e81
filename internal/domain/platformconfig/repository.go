package platformconfig

import (
	"context"

	"github.com/sellerdesk/backoffice/internal/types"
)

// Repository defines the interface for platform config persistence
type Repository interface {
	// Get returns the config row for the key, or ErrNotFound
	Get(ctx context.Context, key types.ConfigKey) (*Config, error)
	// Upsert creates or replaces the value for the key
	Upsert(ctx context.Context, c *Config) error
	List(ctx context.Context) ([]*Config, error)
	Delete(ctx context.Context, key types.ConfigKey) error
}
