package dto

import (
	"context"

	"github.com/sellerdesk/backoffice/internal/domain/feature"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/sellerdesk/backoffice/internal/validator"
)

type CreateFeatureRequest struct {
	Code         string `json:"code" validate:"required,max=64"`
	Name         string `json:"name" validate:"required,max=255"`
	Category     string `json:"category,omitempty"`
	Active       bool   `json:"active"`
	DisplayOrder int    `json:"display_order"`
}

func (r *CreateFeatureRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateFeatureRequest) ToFeature(ctx context.Context) *feature.Feature {
	return &feature.Feature{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FEATURE),
		Code:         r.Code,
		Name:         r.Name,
		Category:     r.Category,
		Active:       r.Active,
		DisplayOrder: r.DisplayOrder,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
}

type UpdateFeatureRequest struct {
	Name         *string `json:"name,omitempty"`
	Category     *string `json:"category,omitempty"`
	Active       *bool   `json:"active,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

func (r *UpdateFeatureRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *UpdateFeatureRequest) Apply(f *feature.Feature) {
	if r.Name != nil {
		f.Name = *r.Name
	}
	if r.Category != nil {
		f.Category = *r.Category
	}
	if r.Active != nil {
		f.Active = *r.Active
	}
	if r.DisplayOrder != nil {
		f.DisplayOrder = *r.DisplayOrder
	}
}

type FeatureResponse struct {
	*feature.Feature
}

func NewFeatureResponse(f *feature.Feature) *FeatureResponse {
	return &FeatureResponse{Feature: f}
}

type ListFeaturesResponse = types.ListResponse[*FeatureResponse]
