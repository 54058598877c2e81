package postgres

import (
	"context"

	"github.com/sellerdesk/backoffice/internal/domain/plan"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/logger"
	"github.com/sellerdesk/backoffice/internal/postgres"
	"github.com/sellerdesk/backoffice/internal/types"
)

type planRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewPlanRepository creates a new instance of plan repository
func NewPlanRepository(db postgres.IClient, logger *logger.Logger) plan.Repository {
	return &planRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the plan row and its feature join rows atomically
func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	return r.db.WithTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO subscription_plans (
				id, code, name, description, price, currency, billing_cycle,
				discount_percentage, standard, active, start_date, end_date,
				tenant_id, status, created_at, updated_at, created_by, updated_by
			) VALUES (
				:id, :code, :name, :description, :price, :currency, :billing_cycle,
				:discount_percentage, :standard, :active, :start_date, :end_date,
				:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
			)`

		if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
			if isUniqueViolation(err) {
				return ierr.WithError(err).
					WithHint("A plan with this code already exists").
					Mark(ierr.ErrAlreadyExists)
			}
			return ierr.WithError(err).
				WithHint("Failed to create plan").
				Mark(ierr.ErrDatabase)
		}

		return r.replaceFeatures(ctx, p.ID, p.FeatureIDs)
	})
}

// Get retrieves a plan by id with its ordered feature ids
func (r *planRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	query := `
		SELECT * FROM subscription_plans
		WHERE id = :id
		AND status = :status`

	params := map[string]interface{}{
		"id":     id,
		"status": types.StatusPublished,
	}

	return r.queryOne(ctx, query, params)
}

// GetByCode retrieves a plan by its unique code
func (r *planRepository) GetByCode(ctx context.Context, code string) (*plan.Plan, error) {
	query := `
		SELECT * FROM subscription_plans
		WHERE code = :code
		AND status = :status`

	params := map[string]interface{}{
		"code":   code,
		"status": types.StatusPublished,
	}

	return r.queryOne(ctx, query, params)
}

// List retrieves all plans
func (r *planRepository) List(ctx context.Context) ([]*plan.Plan, error) {
	query := `
		SELECT * FROM subscription_plans
		WHERE status = :status
		ORDER BY created_at ASC`

	params := map[string]interface{}{
		"status": types.StatusPublished,
	}

	return r.queryMany(ctx, query, params)
}

// ListActive retrieves plans with the active flag set
func (r *planRepository) ListActive(ctx context.Context) ([]*plan.Plan, error) {
	query := `
		SELECT * FROM subscription_plans
		WHERE active = TRUE
		AND status = :status
		ORDER BY created_at ASC`

	params := map[string]interface{}{
		"status": types.StatusPublished,
	}

	return r.queryMany(ctx, query, params)
}

// Update rewrites the plan's mutable fields and replaces its feature set
func (r *planRepository) Update(ctx context.Context, p *plan.Plan) error {
	return r.db.WithTx(ctx, func(ctx context.Context) error {
		query := `
			UPDATE subscription_plans
			SET
				name = :name,
				description = :description,
				price = :price,
				currency = :currency,
				billing_cycle = :billing_cycle,
				discount_percentage = :discount_percentage,
				active = :active,
				start_date = :start_date,
				end_date = :end_date,
				updated_at = NOW(),
				updated_by = :updated_by
			WHERE id = :id
			AND status = :status`

		params := map[string]interface{}{
			"id":                  p.ID,
			"name":                p.Name,
			"description":         p.Description,
			"price":               p.Price,
			"currency":            p.Currency,
			"billing_cycle":       p.BillingCycle,
			"discount_percentage": p.DiscountPercentage,
			"active":              p.Active,
			"start_date":          p.StartDate,
			"end_date":            p.EndDate,
			"updated_by":          types.GetActorID(ctx),
			"status":              types.StatusPublished,
		}

		result, err := r.db.NamedExecContext(ctx, query, params)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to update plan").
				Mark(ierr.ErrDatabase)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		if affected == 0 {
			return ierr.NewError("plan not found").
				Mark(ierr.ErrPlanNotFound)
		}

		return r.replaceFeatures(ctx, p.ID, p.FeatureIDs)
	})
}

// SetStandard atomically unsets the previous standard plan and marks the new one
func (r *planRepository) SetStandard(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(ctx context.Context) error {
		unsetQuery := `
			UPDATE subscription_plans
			SET standard = FALSE, updated_at = NOW(), updated_by = :updated_by
			WHERE standard = TRUE
			AND status = :status`

		params := map[string]interface{}{
			"updated_by": types.GetActorID(ctx),
			"status":     types.StatusPublished,
		}

		if _, err := r.db.NamedExecContext(ctx, unsetQuery, params); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to unset previous standard plan").
				Mark(ierr.ErrDatabase)
		}

		setQuery := `
			UPDATE subscription_plans
			SET standard = TRUE, updated_at = NOW(), updated_by = :updated_by
			WHERE id = :id
			AND status = :status`

		params["id"] = id

		result, err := r.db.NamedExecContext(ctx, setQuery, params)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to set standard plan").
				Mark(ierr.ErrDatabase)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		if affected == 0 {
			return ierr.NewError("plan not found").
				Mark(ierr.ErrPlanNotFound)
		}

		return nil
	})
}

// GetStandard retrieves the current standard plan
func (r *planRepository) GetStandard(ctx context.Context) (*plan.Plan, error) {
	query := `
		SELECT * FROM subscription_plans
		WHERE standard = TRUE
		AND status = :status`

	params := map[string]interface{}{
		"status": types.StatusPublished,
	}

	return r.queryOne(ctx, query, params)
}

// replaceFeatures rewrites the plan_features join rows preserving order
func (r *planRepository) replaceFeatures(ctx context.Context, planID string, featureIDs []string) error {
	deleteQuery := `DELETE FROM plan_features WHERE plan_id = :plan_id`

	if _, err := r.db.NamedExecContext(ctx, deleteQuery, map[string]interface{}{"plan_id": planID}); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to clear plan features").
			Mark(ierr.ErrDatabase)
	}

	insertQuery := `
		INSERT INTO plan_features (plan_id, feature_id, display_order)
		VALUES (:plan_id, :feature_id, :display_order)`

	for i, featureID := range featureIDs {
		params := map[string]interface{}{
			"plan_id":       planID,
			"feature_id":    featureID,
			"display_order": i,
		}
		if _, err := r.db.NamedExecContext(ctx, insertQuery, params); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to attach plan feature").
				WithReportableDetails(map[string]any{
					"feature_id": featureID,
				}).
				Mark(ierr.ErrDatabase)
		}
	}

	return nil
}

func (r *planRepository) loadFeatureIDs(ctx context.Context, planID string) ([]string, error) {
	query := `
		SELECT feature_id FROM plan_features
		WHERE plan_id = :plan_id
		ORDER BY display_order ASC`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{"plan_id": planID})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query plan features").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *planRepository) queryOne(ctx context.Context, query string, params map[string]interface{}) (*plan.Plan, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query plan").
			Mark(ierr.ErrDatabase)
	}

	if !rows.Next() {
		rows.Close()
		return nil, ierr.NewError("plan not found").
			Mark(ierr.ErrPlanNotFound)
	}

	var p plan.Plan
	if err := rows.StructScan(&p); err != nil {
		rows.Close()
		return nil, ierr.WithError(err).
			WithHint("Failed to scan plan").
			Mark(ierr.ErrDatabase)
	}
	rows.Close()

	featureIDs, err := r.loadFeatureIDs(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.FeatureIDs = featureIDs

	return &p, nil
}

func (r *planRepository) queryMany(ctx context.Context, query string, params map[string]interface{}) ([]*plan.Plan, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query plans").
			Mark(ierr.ErrDatabase)
	}

	var plans []*plan.Plan
	for rows.Next() {
		var p plan.Plan
		if err := rows.StructScan(&p); err != nil {
			rows.Close()
			return nil, ierr.WithError(err).
				WithHint("Failed to scan plan").
				Mark(ierr.ErrDatabase)
		}
		plans = append(plans, &p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	rows.Close()

	for _, p := range plans {
		featureIDs, err := r.loadFeatureIDs(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.FeatureIDs = featureIDs
	}

	return plans, nil
}
