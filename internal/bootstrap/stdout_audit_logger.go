package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StdoutAuditLogger writes process lifecycle events to the global zap
// logger. Domain audit entries go through the outbox instead.
type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	zap.L().Named("lifecycle").Info(entry.Action,
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
		zap.Time("at", time.Now().UTC()),
	)
}
