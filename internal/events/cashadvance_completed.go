package events

import "time"

const CashAdvanceCompletedTopic = "crew.cashadvance.completed.v1"

type CashAdvanceCompletedEvent struct {
	EventType     string    `json:"event_type"`
	CashAdvanceID string    `json:"cash_advance_id"`
	WorkerID      string    `json:"worker_id"`
	Amount        string    `json:"amount"`
	ProcessedBy   string    `json:"processed_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}
