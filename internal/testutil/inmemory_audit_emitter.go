package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/sellerdesk/backoffice/internal/audit"
	"github.com/sellerdesk/backoffice/internal/types"
)

// InMemoryAuditEmitter records emitted audit events so tests can assert on
// them.
type InMemoryAuditEmitter struct {
	mu     sync.Mutex
	events []*types.AuditEvent
}

func NewInMemoryAuditEmitter() *InMemoryAuditEmitter {
	return &InMemoryAuditEmitter{}
}

var _ audit.Emitter = (*InMemoryAuditEmitter)(nil)

func (e *InMemoryAuditEmitter) Emit(ctx context.Context, eventName types.AuditEventName, entityID string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.events = append(e.events, &types.AuditEvent{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT_EVENT),
		EventName: eventName,
		TenantID:  types.GetTenantID(ctx),
		EntityID:  entityID,
		ActorID:   types.GetActorID(ctx),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}

func (e *InMemoryAuditEmitter) Close() error {
	return nil
}

// Events returns a snapshot of everything emitted so far
func (e *InMemoryAuditEmitter) Events() []*types.AuditEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]*types.AuditEvent, len(e.events))
	copy(result, e.events)
	return result
}

// EventsNamed returns the emitted events matching the name
func (e *InMemoryAuditEmitter) EventsNamed(name types.AuditEventName) []*types.AuditEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result []*types.AuditEvent
	for _, event := range e.events {
		if event.EventName == name {
			result = append(result, event)
		}
	}
	return result
}

func (e *InMemoryAuditEmitter) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = nil
}
