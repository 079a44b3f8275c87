package events

import "time"

const AuditTrailTopic = "crew.audit.trail.v1"

type AuditTrailEvent struct {
	EventType  string    `json:"event_type"`
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurred_at"`
}
