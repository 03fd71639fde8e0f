package ports

import (
	"context"
	"time"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

// AppointmentInput is the full appointment body received from the transport layer.
type AppointmentInput struct {
	ID      string // optional on update; must match the path id when present
	Type    string
	Notes   string
	StartAt time.Time
	EndAt   time.Time
	UserID  string
}

// ListAppointmentsInput carries the paging parameters of the list endpoint.
type ListAppointmentsInput struct {
	Page  int // 1-based, defaults to 1
	Limit int // 0 = unbounded
}

// ListAppointmentsResult is one page of upcoming appointments.
type ListAppointmentsResult struct {
	Data    []*domain.Appointment
	HasMore bool
}

// AvailabilityChecker decides whether a slot is free across all appointments.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, slot domain.Slot, excludeID string) (bool, error)
}

// AppointmentService defines use-case operations for appointments.
type AppointmentService interface {
	AvailabilityChecker

	ListAppointments(ctx context.Context, caller domain.Caller, in ListAppointmentsInput) (*ListAppointmentsResult, error)
	ListForCalendar(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error)
	GetAppointment(ctx context.Context, caller domain.Caller, id string) (*domain.Appointment, error)
	CreateAppointment(ctx context.Context, caller domain.Caller, pathUserID string, in AppointmentInput) (*domain.Appointment, error)
	UpdateAppointment(ctx context.Context, caller domain.Caller, pathID string, in AppointmentInput) (*domain.Appointment, error)
	DeleteAppointment(ctx context.Context, caller domain.Caller, id string) error
}

// AuditService exposes the appointment change history.
type AuditService interface {
	Record(ctx context.Context, e domain.AuditEvent) error
	History(ctx context.Context, appointmentID string) ([]*domain.AuditEvent, error)
}
