package postgres

import (
	"context"

	"github.com/sellerdesk/backoffice/internal/domain/platformconfig"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/logger"
	"github.com/sellerdesk/backoffice/internal/postgres"
	"github.com/sellerdesk/backoffice/internal/types"
)

type platformConfigRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewPlatformConfigRepository creates a new instance of platform config repository
func NewPlatformConfigRepository(db postgres.IClient, logger *logger.Logger) platformconfig.Repository {
	return &platformConfigRepository{
		db:     db,
		logger: logger,
	}
}

func (r *platformConfigRepository) Get(ctx context.Context, key types.ConfigKey) (*platformconfig.Config, error) {
	query := `
		SELECT * FROM platform_configs
		WHERE config_key = :config_key
		AND status = :status`

	params := map[string]interface{}{
		"config_key": key,
		"status":     types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query platform config").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewErrorf("no platform config for key %s", key).
			Mark(ierr.ErrNotFound)
	}

	var c platformconfig.Config
	if err := rows.StructScan(&c); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan platform config").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *platformConfigRepository) Upsert(ctx context.Context, c *platformconfig.Config) error {
	query := `
		INSERT INTO platform_configs (
			id, config_key, config_value, description,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :config_key, :config_value, :description,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)
		ON CONFLICT (config_key) DO UPDATE SET
			config_value = EXCLUDED.config_value,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			updated_at = NOW(),
			updated_by = EXCLUDED.updated_by`

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to upsert platform config").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *platformConfigRepository) List(ctx context.Context) ([]*platformconfig.Config, error) {
	query := `
		SELECT * FROM platform_configs
		WHERE status = :status
		ORDER BY config_key ASC`

	params := map[string]interface{}{
		"status": types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query platform configs").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var configs []*platformconfig.Config
	for rows.Next() {
		var c platformconfig.Config
		if err := rows.StructScan(&c); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan platform config").
				Mark(ierr.ErrDatabase)
		}
		configs = append(configs, &c)
	}

	return configs, rows.Err()
}

func (r *platformConfigRepository) Delete(ctx context.Context, key types.ConfigKey) error {
	query := `
		UPDATE platform_configs
		SET status = :deleted, updated_at = NOW(), updated_by = :updated_by
		WHERE config_key = :config_key
		AND status = :status`

	params := map[string]interface{}{
		"config_key": key,
		"deleted":    types.StatusDeleted,
		"updated_by": types.GetActorID(ctx),
		"status":     types.StatusPublished,
	}

	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete platform config").
			Mark(ierr.ErrDatabase)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		return ierr.NewErrorf("no platform config for key %s", key).
			Mark(ierr.ErrNotFound)
	}

	return nil
}
