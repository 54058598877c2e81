package feature

import (
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/types"
)

// Feature represents a premium feature that plans may grant
type Feature struct {
	ID           string `db:"id" json:"id"`
	Code         string `db:"code" json:"code"`
	Name         string `db:"name" json:"name"`
	Category     string `db:"category" json:"category"`
	Active       bool   `db:"active" json:"active"`
	DisplayOrder int    `db:"display_order" json:"display_order"`
	types.BaseModel
}

func (f *Feature) TableName() string {
	return "premium_features"
}

func (f *Feature) Validate() error {
	if f.Code == "" {
		return ierr.NewError("feature code is required").
			WithHint("Feature code is required").
			Mark(ierr.ErrValidation)
	}
	if f.Name == "" {
		return ierr.NewError("feature name is required").
			WithHint("Feature name is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
