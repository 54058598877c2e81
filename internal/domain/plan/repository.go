package plan

import (
	"context"
)

// Repository defines the interface for plan persistence
type Repository interface {
	Create(ctx context.Context, plan *Plan) error
	Get(ctx context.Context, id string) (*Plan, error)
	GetByCode(ctx context.Context, code string) (*Plan, error)
	List(ctx context.Context) ([]*Plan, error)
	ListActive(ctx context.Context) ([]*Plan, error)
	Update(ctx context.Context, plan *Plan) error
	// SetStandard atomically marks the given plan as the platform standard plan
	// and unsets the previous one, so at most one standard plan exists
	SetStandard(ctx context.Context, id string) error
	// GetStandard returns the current standard plan, or ErrNotFound if none is configured
	GetStandard(ctx context.Context) (*Plan, error)
}
