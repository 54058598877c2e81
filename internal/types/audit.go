package types

import "time"

// AuditEventName identifies what changed in an audit event
type AuditEventName string

const (
	AuditEventSubscriptionCreated     AuditEventName = "subscription.created"
	AuditEventSubscriptionActivated   AuditEventName = "subscription.activated"
	AuditEventSubscriptionPlanChanged AuditEventName = "subscription.plan_changed"
	AuditEventSubscriptionRenewed     AuditEventName = "subscription.renewed"
	AuditEventSubscriptionCancelled   AuditEventName = "subscription.cancelled"
	AuditEventSubscriptionSuspended   AuditEventName = "subscription.suspended"
	AuditEventSubscriptionExpired     AuditEventName = "subscription.expired"

	AuditEventWalletCreated       AuditEventName = "wallet.created"
	AuditEventWalletCredited      AuditEventName = "wallet.credited"
	AuditEventWalletDebited       AuditEventName = "wallet.debited"
	AuditEventWalletAdjusted      AuditEventName = "wallet.adjusted"
	AuditEventWalletStatusChanged AuditEventName = "wallet.status_changed"
)

// AuditEvent is the payload published to the audit sink after each committed
// subscription or wallet change. It is write-only from the core's perspective.
type AuditEvent struct {
	ID        string         `json:"id"`
	EventName AuditEventName `json:"event_name"`
	TenantID  string         `json:"tenant_id"`
	EntityID  string         `json:"entity_id"`
	ActorID   string         `json:"actor_id"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   any            `json:"payload,omitempty"`
}
