package ports

import (
	"context"

	"github.com/internalpj/crm-api/internal/core/domain"
)

// AuditRecorder accepts audit entries for asynchronous persistence. Record
// must never block the calling request beyond a bounded channel send.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}

// AuditRepository persists and reads back the authentication audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}
