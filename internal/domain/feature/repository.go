package feature

import "context"

// Repository defines the interface for premium feature persistence
type Repository interface {
	Create(ctx context.Context, feature *Feature) error
	Get(ctx context.Context, id string) (*Feature, error)
	GetByCode(ctx context.Context, code string) (*Feature, error)
	List(ctx context.Context) ([]*Feature, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Feature, error)
	Update(ctx context.Context, feature *Feature) error
}
