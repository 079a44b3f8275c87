package audit

import (
	"context"
	"database/sql"
	"encoding/json"

	"crewpay/internal/events"
	"crewpay/internal/messaging/kafka"
	"crewpay/internal/shared/clock"
	"crewpay/internal/shared/contextutil"

	"github.com/google/uuid"
)

// OutboxSink writes audit entries to the transactional outbox so they
// ship to the audit trail topic only when the surrounding operation
// commits.
type OutboxSink struct {
	repo kafka.OutboxRepository
	clk  clock.Clock
}

func NewOutboxSink(repo kafka.OutboxRepository, clk clock.Clock) *OutboxSink {
	return &OutboxSink{repo: repo, clk: clk}
}

func (s *OutboxSink) WithTx(tx *sql.Tx) Sink {
	return &OutboxSink{repo: s.repo.WithTx(tx), clk: s.clk}
}

func (s *OutboxSink) Record(ctx context.Context, entry Entry) error {
	event := events.AuditTrailEvent{
		EventType:  "audit_trail",
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Summary:    entry.Summary,
		OccurredAt: s.clk.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.repo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: entry.EntityType,
		AggregateID:   entry.EntityID,
		EventType:     "audit_trail",
		Topic:         events.AuditTrailTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
