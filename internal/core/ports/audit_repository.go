package ports

import (
	"context"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

// AuditRepository stores the change history of appointments.
type AuditRepository interface {
	Insert(ctx context.Context, e *domain.AuditEvent) error
	// ListByAppointment returns events oldest first.
	ListByAppointment(ctx context.Context, appointmentID string) ([]*domain.AuditEvent, error)
}

// AuditSink accepts audit events for asynchronous persistence.
type AuditSink interface {
	Enqueue(e domain.AuditEvent)
}
