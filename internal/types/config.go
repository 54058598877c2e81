package types

type RunMode string

const (
	// ModeLocal is the mode for running the API server locally
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running the API server
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
)

// ConfigKey is a typed key for platform config rows
type ConfigKey string

const (
	// ConfigKeyDefaultCurrency is the platform-wide default wallet currency
	ConfigKeyDefaultCurrency ConfigKey = "default_currency"
	// ConfigKeyDefaultPlanCode points at the standard plan applied when a tenant
	// has no active paid subscription
	ConfigKeyDefaultPlanCode ConfigKey = "default_plan_code"
	// ConfigKeyWalletAllowOverdraft enables negative wallet balances platform-wide
	ConfigKeyWalletAllowOverdraft ConfigKey = "wallet_allow_overdraft"
)

const (
	// DefaultCurrency is used when no platform config override exists
	DefaultCurrency = "usd"
)
