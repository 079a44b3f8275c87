package bootstrap

import "context"

// AuditLog is a process lifecycle event, distinct from the domain audit
// trail written by the services.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
