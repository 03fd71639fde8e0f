package ports

import (
	"context"
	"time"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

// ListAppointmentsFilter carries the query for one page of appointments.
type ListAppointmentsFilter struct {
	UserID      string    // empty = every user (admin)
	StartsAfter time.Time // inclusive lower bound on start_at
	Offset      int
	Limit       int // 0 = unbounded
}

// AppointmentRepository defines persistence operations for appointments.
// Lookups that miss return domain.ErrAppointmentNotFound.
type AppointmentRepository interface {
	// Create assigns a new id to a and stores it.
	Create(ctx context.Context, a *domain.Appointment) error
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	// Update replaces type, notes, start_at, end_at and user_id.
	Update(ctx context.Context, a *domain.Appointment) error
	Delete(ctx context.Context, id string) error

	// HasOverlap reports whether any appointment other than excludeID shares an
	// instant with slot. Interval bounds are inclusive.
	HasOverlap(ctx context.Context, slot domain.Slot, excludeID string) (bool, error)

	// List returns the requested page ordered by start_at, id together with the
	// number of appointments matching the filter. Each item carries its owner.
	List(ctx context.Context, filter ListAppointmentsFilter) ([]*domain.Appointment, int64, error)

	// ListBetween returns every appointment with from <= start_at <= to,
	// ordered by start_at.
	ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error)
}
