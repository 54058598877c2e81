package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/sellerdesk/backoffice/internal/config"
	"github.com/sellerdesk/backoffice/internal/logger"
	"github.com/sellerdesk/backoffice/internal/pubsub"
	"github.com/sellerdesk/backoffice/internal/types"
)

// Emitter is the write-only audit sink the state machine and ledger call into
// after each committed change. Emission never fails the originating operation.
type Emitter interface {
	Emit(ctx context.Context, eventName types.AuditEventName, entityID string, payload any)
	Close() error
}

type emitter struct {
	pubSub pubsub.PubSub
	topic  string
	logger *logger.Logger
}

// NewEmitter creates an audit emitter publishing over the given pubsub
func NewEmitter(pubSub pubsub.PubSub, cfg *config.Configuration, logger *logger.Logger) Emitter {
	return &emitter{
		pubSub: pubSub,
		topic:  cfg.Audit.Topic,
		logger: logger,
	}
}

func (e *emitter) Emit(ctx context.Context, eventName types.AuditEventName, entityID string, payload any) {
	event := &types.AuditEvent{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT_EVENT),
		EventName: eventName,
		TenantID:  types.GetTenantID(ctx),
		EntityID:  entityID,
		ActorID:   types.GetActorID(ctx),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	body, err := json.Marshal(event)
	if err != nil {
		e.logger.Errorw("failed to marshal audit event",
			"error", err,
			"event_name", eventName,
			"entity_id", entityID,
		)
		return
	}

	msg := message.NewMessage(event.ID, body)
	msg.Metadata.Set("tenant_id", event.TenantID)
	msg.Metadata.Set("event_name", string(eventName))

	if err := e.pubSub.Publish(ctx, e.topic, msg); err != nil {
		// Audit emission is best-effort; the originating operation has already
		// committed and must not be failed here.
		e.logger.Errorw("failed to publish audit event",
			"error", err,
			"event_id", event.ID,
			"event_name", eventName,
			"tenant_id", event.TenantID,
		)
		return
	}

	e.logger.Debugw("published audit event",
		"event_id", event.ID,
		"event_name", eventName,
		"tenant_id", event.TenantID,
		"entity_id", entityID,
	)
}

func (e *emitter) Close() error {
	return e.pubSub.Close()
}
