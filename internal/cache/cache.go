package cache

import (
	"context"
	"fmt"
	"strings"
)

// Cache key prefixes for the read-mostly lookups
const (
	PrefixPlan           = "plan"
	PrefixPlanFeatures   = "plan_features"
	PrefixPlatformConfig = "platform_config"
)

// Cache defines the interface for cache implementations
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{})
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
	Flush(ctx context.Context)
}

// GenerateKey builds a cache key from a prefix and parts
func GenerateKey(prefix string, parts ...interface{}) string {
	strParts := make([]string, len(parts)+1)
	strParts[0] = prefix
	for i, part := range parts {
		strParts[i+1] = fmt.Sprintf("%v", part)
	}
	return strings.Join(strParts, ":")
}
