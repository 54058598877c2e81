package subscription

import (
	"time"

	"github.com/sellerdesk/backoffice/internal/types"
)

// HistoryEntry is one append-only audit row per subscription transition.
// Entries are never mutated or deleted and are ordered by performed_at then
// insertion order (ids are k-sortable).
type HistoryEntry struct {
	ID             string              `db:"id" json:"id"`
	SubscriptionID string              `db:"subscription_id" json:"subscription_id"`
	OldPlanID      *string             `db:"old_plan_id" json:"old_plan_id,omitempty"`
	NewPlanID      string              `db:"new_plan_id" json:"new_plan_id"`
	Action         types.HistoryAction `db:"action" json:"action"`
	Notes          string              `db:"notes" json:"notes,omitempty"`
	PerformedBy    string              `db:"performed_by" json:"performed_by"`
	PerformedAt    time.Time           `db:"performed_at" json:"performed_at"`
	types.BaseModel
}

func (h *HistoryEntry) TableName() string {
	return "subscription_history"
}
