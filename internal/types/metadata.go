package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Metadata is a type for storing key-value pairs of additional information on a row
type Metadata map[string]string

// Value implements driver.Valuer so Metadata can be stored as jsonb
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner so Metadata can be read back from jsonb
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unsupported type for metadata: %T", value)
	}

	return json.Unmarshal(b, m)
}
