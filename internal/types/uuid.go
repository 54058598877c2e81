package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex subs_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_PLAN                 = "plan"
	UUID_PREFIX_FEATURE              = "feat"
	UUID_PREFIX_SUBSCRIPTION         = "subs"
	UUID_PREFIX_SUBSCRIPTION_HISTORY = "subh"
	UUID_PREFIX_WALLET               = "wallet"
	UUID_PREFIX_WALLET_TRANSACTION   = "wtxn"
	UUID_PREFIX_CONFIG               = "cfg"
	UUID_PREFIX_AUDIT_EVENT          = "audit"
)
