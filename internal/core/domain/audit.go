package domain

import "time"

// AuditAction names an appointment lifecycle change.
type AuditAction string

const (
	AuditCreated AuditAction = "created"
	AuditUpdated AuditAction = "updated"
	AuditDeleted AuditAction = "deleted"
)

// AuditEvent records one change to an appointment.
type AuditEvent struct {
	ID            string
	AppointmentID string
	Action        AuditAction
	ActorID       string
	ActorRole     Role
	StartAt       time.Time
	EndAt         time.Time
	OccurredAt    time.Time
}
