package plan

import (
	"time"

	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/shopspring/decimal"
)

// Plan represents a priced subscription offering with a billing cycle and an
// ordered bundle of premium features
type Plan struct {
	ID                 string             `db:"id" json:"id"`
	Code               string             `db:"code" json:"code"`
	Name               string             `db:"name" json:"name"`
	Description        string             `db:"description" json:"description"`
	Price              decimal.Decimal    `db:"price" json:"price"`
	Currency           string             `db:"currency" json:"currency"`
	BillingCycle       types.BillingCycle `db:"billing_cycle" json:"billing_cycle"`
	DiscountPercentage decimal.Decimal    `db:"discount_percentage" json:"discount_percentage"`
	Standard           bool               `db:"standard" json:"standard"`
	Active             bool               `db:"active" json:"active"`
	StartDate          *time.Time         `db:"start_date" json:"start_date,omitempty"`
	EndDate            *time.Time         `db:"end_date" json:"end_date,omitempty"`

	// FeatureIDs is the ordered list of premium feature ids granted by the plan,
	// persisted via the plan_features join table
	FeatureIDs []string `db:"-" json:"feature_ids"`

	types.BaseModel
}

func (p *Plan) TableName() string {
	return "subscription_plans"
}

// EffectivePrice returns the plan price after applying the discount percentage
func (p *Plan) EffectivePrice() decimal.Decimal {
	if p.DiscountPercentage.IsZero() {
		return p.Price
	}
	discount := p.Price.Mul(p.DiscountPercentage).Div(decimal.NewFromInt(100))
	return p.Price.Sub(discount)
}

// IsAvailableAt reports whether the plan is active and inside its validity window
func (p *Plan) IsAvailableAt(t time.Time) bool {
	if !p.Active {
		return false
	}
	if p.StartDate != nil && t.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && t.After(*p.EndDate) {
		return false
	}
	return true
}

func (p *Plan) Validate() error {
	if p.Code == "" {
		return ierr.NewError("plan code is required").
			WithHint("Plan code is required").
			Mark(ierr.ErrValidation)
	}

	if p.Price.IsNegative() {
		return ierr.NewError("plan price cannot be negative").
			WithHint("Plan price must be zero or positive").
			WithReportableDetails(map[string]any{
				"price": p.Price,
			}).
			Mark(ierr.ErrValidation)
	}

	if p.DiscountPercentage.IsNegative() || p.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("discount percentage out of range").
			WithHint("Discount percentage must be between 0 and 100").
			WithReportableDetails(map[string]any{
				"discount_percentage": p.DiscountPercentage,
			}).
			Mark(ierr.ErrValidation)
	}

	if err := p.BillingCycle.Validate(); err != nil {
		return err
	}

	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return ierr.NewError("plan validity window is inverted").
			WithHint("Plan end date must be after its start date").
			Mark(ierr.ErrValidation)
	}

	return nil
}
