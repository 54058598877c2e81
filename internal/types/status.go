package types

// Status is a type for the row-level lifecycle status of a persisted resource.
// This is used to track soft deletion and to determine if a row should be
// included in queries. Not to be confused with domain statuses such as
// SubscriptionStatus or WalletStatus.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)
