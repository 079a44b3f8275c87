package consumer

import (
	"context"
	"encoding/json"

	"crewpay/internal/audit"
	"crewpay/internal/events"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeAuditTrail materializes audit trail events into the
// audit_trail table for the portal's history screens.
func ConsumeAuditTrail(
	ctx context.Context,
	reader *kafkago.Reader,
	repo audit.TrailRepository,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.audit_trail")
	log.Info("audit trail consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("audit trail consumer stopped")
				return
			}
			log.Error("fetch audit trail message failed", zap.Error(err))
			continue
		}

		var event events.AuditTrailEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode audit_trail event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		rowID := uuid.New()
		if parsed, err := uuid.Parse(outboxID(msg)); err == nil {
			rowID = parsed
		}

		row := &audit.TrailRow{
			ID:         rowID,
			ActorID:    event.ActorID,
			Action:     event.Action,
			EntityType: event.EntityType,
			EntityID:   event.EntityID,
			Summary:    event.Summary,
			OccurredAt: event.OccurredAt,
		}
		if err := repo.Insert(ctx, row); err != nil {
			log.Error("insert audit trail row failed",
				zap.String("action", event.Action),
				zap.String("entity_id", event.EntityID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit audit trail message failed", zap.Error(err))
			continue
		}
	}
}

// outboxID pulls the outbox event id header when present so retried
// deliveries dedupe on the same primary key.
func outboxID(msg kafkago.Message) string {
	for _, h := range msg.Headers {
		if h.Key == "outbox_id" {
			return string(h.Value)
		}
	}
	return string(msg.Key)
}
