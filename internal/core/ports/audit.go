package ports

import (
	"context"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}

// AuditLog accepts audit events without blocking the caller.
type AuditLog interface {
	Record(event domain.AuditEvent)
}
