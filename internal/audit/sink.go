package audit

import (
	"context"
	"database/sql"
)

// Entry is one audit trail record for a state-changing operation.
type Entry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Summary    string
}

//go:generate mockgen -source=sink.go -destination=mock/sink_mock.go -package=mock

// Sink receives audit entries. Implementations bound to a transaction
// via WithTx enqueue atomically with the operation they describe.
type Sink interface {
	WithTx(tx *sql.Tx) Sink
	Record(ctx context.Context, entry Entry) error
}
