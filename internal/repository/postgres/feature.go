package postgres

import (
	"context"

	"github.com/lib/pq"
	"github.com/sellerdesk/backoffice/internal/domain/feature"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/logger"
	"github.com/sellerdesk/backoffice/internal/postgres"
	"github.com/sellerdesk/backoffice/internal/types"
)

type featureRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewFeatureRepository creates a new instance of feature repository
func NewFeatureRepository(db postgres.IClient, logger *logger.Logger) feature.Repository {
	return &featureRepository{
		db:     db,
		logger: logger,
	}
}

func (r *featureRepository) Create(ctx context.Context, f *feature.Feature) error {
	query := `
		INSERT INTO premium_features (
			id, code, name, category, active, display_order,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :code, :name, :category, :active, :display_order,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A feature with this code already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create feature").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *featureRepository) Get(ctx context.Context, id string) (*feature.Feature, error) {
	query := `
		SELECT * FROM premium_features
		WHERE id = :id
		AND status = :status`

	params := map[string]interface{}{
		"id":     id,
		"status": types.StatusPublished,
	}

	return r.queryOne(ctx, query, params)
}

func (r *featureRepository) GetByCode(ctx context.Context, code string) (*feature.Feature, error) {
	query := `
		SELECT * FROM premium_features
		WHERE code = :code
		AND status = :status`

	params := map[string]interface{}{
		"code":   code,
		"status": types.StatusPublished,
	}

	return r.queryOne(ctx, query, params)
}

func (r *featureRepository) List(ctx context.Context) ([]*feature.Feature, error) {
	query := `
		SELECT * FROM premium_features
		WHERE status = :status
		ORDER BY display_order ASC, code ASC`

	params := map[string]interface{}{
		"status": types.StatusPublished,
	}

	return r.queryMany(ctx, query, params)
}

func (r *featureRepository) ListByIDs(ctx context.Context, ids []string) ([]*feature.Feature, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT * FROM premium_features
		WHERE id = ANY(:ids)
		AND status = :status
		ORDER BY display_order ASC, code ASC`

	params := map[string]interface{}{
		"ids":    pq.StringArray(ids),
		"status": types.StatusPublished,
	}

	return r.queryMany(ctx, query, params)
}

func (r *featureRepository) Update(ctx context.Context, f *feature.Feature) error {
	query := `
		UPDATE premium_features
		SET
			name = :name,
			category = :category,
			active = :active,
			display_order = :display_order,
			updated_at = NOW(),
			updated_by = :updated_by
		WHERE id = :id
		AND status = :status`

	params := map[string]interface{}{
		"id":            f.ID,
		"name":          f.Name,
		"category":      f.Category,
		"active":        f.Active,
		"display_order": f.DisplayOrder,
		"updated_by":    types.GetActorID(ctx),
		"status":        types.StatusPublished,
	}

	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update feature").
			Mark(ierr.ErrDatabase)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		return ierr.NewError("feature not found").
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *featureRepository) queryOne(ctx context.Context, query string, params map[string]interface{}) (*feature.Feature, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query feature").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("feature not found").
			Mark(ierr.ErrNotFound)
	}

	var f feature.Feature
	if err := rows.StructScan(&f); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan feature").
			Mark(ierr.ErrDatabase)
	}
	return &f, nil
}

func (r *featureRepository) queryMany(ctx context.Context, query string, params map[string]interface{}) ([]*feature.Feature, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query features").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var features []*feature.Feature
	for rows.Next() {
		var f feature.Feature
		if err := rows.StructScan(&f); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan feature").
				Mark(ierr.ErrDatabase)
		}
		features = append(features, &f)
	}

	return features, rows.Err()
}
