package platformconfig

import (
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/types"
)

// Config is a single platform-wide key/value override consulted for defaults
// such as the wallet currency or the standard plan code
type Config struct {
	ID          string          `db:"id" json:"id"`
	Key         types.ConfigKey `db:"config_key" json:"config_key"`
	Value       string          `db:"config_value" json:"config_value"`
	Description string          `db:"description" json:"description,omitempty"`
	types.BaseModel
}

func (c *Config) TableName() string {
	return "platform_configs"
}

func (c *Config) Validate() error {
	if c.Key == "" {
		return ierr.NewError("config key is required").
			WithHint("Config key is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
