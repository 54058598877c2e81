package dto

import (
	"context"
	"time"

	"github.com/sellerdesk/backoffice/internal/domain/plan"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/sellerdesk/backoffice/internal/validator"
	"github.com/shopspring/decimal"
)

type CreatePlanRequest struct {
	Code               string             `json:"code" validate:"required,max=64"`
	Name               string             `json:"name" validate:"required,max=255"`
	Description        string             `json:"description,omitempty"`
	Price              decimal.Decimal    `json:"price"`
	Currency           string             `json:"currency" validate:"required,len=3"`
	BillingCycle       types.BillingCycle `json:"billing_cycle" validate:"required"`
	DiscountPercentage decimal.Decimal    `json:"discount_percentage"`
	Active             bool               `json:"active"`
	StartDate          *time.Time         `json:"start_date,omitempty"`
	EndDate            *time.Time         `json:"end_date,omitempty"`
	FeatureIDs         []string           `json:"feature_ids,omitempty"`
}

func (r *CreatePlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.BillingCycle.Validate()
}

func (r *CreatePlanRequest) ToPlan(ctx context.Context) *plan.Plan {
	return &plan.Plan{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Code:               r.Code,
		Name:               r.Name,
		Description:        r.Description,
		Price:              r.Price,
		Currency:           r.Currency,
		BillingCycle:       r.BillingCycle,
		DiscountPercentage: r.DiscountPercentage,
		Active:             r.Active,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		FeatureIDs:         r.FeatureIDs,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
}

type UpdatePlanRequest struct {
	Name               *string             `json:"name,omitempty"`
	Description        *string             `json:"description,omitempty"`
	Price              *decimal.Decimal    `json:"price,omitempty"`
	Currency           *string             `json:"currency,omitempty" validate:"omitempty,len=3"`
	BillingCycle       *types.BillingCycle `json:"billing_cycle,omitempty"`
	DiscountPercentage *decimal.Decimal    `json:"discount_percentage,omitempty"`
	Active             *bool               `json:"active,omitempty"`
	StartDate          *time.Time          `json:"start_date,omitempty"`
	EndDate            *time.Time          `json:"end_date,omitempty"`
	FeatureIDs         []string            `json:"feature_ids,omitempty"`
}

func (r *UpdatePlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply overlays the set fields onto an existing plan
func (r *UpdatePlanRequest) Apply(p *plan.Plan) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Currency != nil {
		p.Currency = *r.Currency
	}
	if r.BillingCycle != nil {
		p.BillingCycle = *r.BillingCycle
	}
	if r.DiscountPercentage != nil {
		p.DiscountPercentage = *r.DiscountPercentage
	}
	if r.Active != nil {
		p.Active = *r.Active
	}
	if r.StartDate != nil {
		p.StartDate = r.StartDate
	}
	if r.EndDate != nil {
		p.EndDate = r.EndDate
	}
	if r.FeatureIDs != nil {
		p.FeatureIDs = r.FeatureIDs
	}
}

type PlanResponse struct {
	*plan.Plan
	EffectivePrice decimal.Decimal `json:"effective_price"`
}

func NewPlanResponse(p *plan.Plan) *PlanResponse {
	return &PlanResponse{
		Plan:           p,
		EffectivePrice: p.EffectivePrice(),
	}
}

type ListPlansResponse = types.ListResponse[*PlanResponse]
