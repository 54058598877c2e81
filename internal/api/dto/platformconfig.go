package dto

import (
	"context"

	"github.com/sellerdesk/backoffice/internal/domain/platformconfig"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/sellerdesk/backoffice/internal/validator"
)

type SetPlatformConfigRequest struct {
	Key         types.ConfigKey `json:"key" validate:"required"`
	Value       string          `json:"value" validate:"required"`
	Description string          `json:"description,omitempty"`
}

func (r *SetPlatformConfigRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *SetPlatformConfigRequest) ToConfig(ctx context.Context) *platformconfig.Config {
	return &platformconfig.Config{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CONFIG),
		Key:         r.Key,
		Value:       r.Value,
		Description: r.Description,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

type PlatformConfigResponse struct {
	*platformconfig.Config
}

func NewPlatformConfigResponse(c *platformconfig.Config) *PlatformConfigResponse {
	return &PlatformConfigResponse{Config: c}
}
