package events

import "time"

const PayrollGeneratedTopic = "crew.payroll.generated.v1"

type PayrollGeneratedEvent struct {
	EventType   string    `json:"event_type"`
	BatchRef    string    `json:"batch_ref"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
	Created     int       `json:"created"`
	Updated     int       `json:"updated"`
	Failed      int       `json:"failed"`
	GeneratedBy string    `json:"generated_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
