package service

import (
	"context"
	"time"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
	"github.com/sirpyerre/appointment-scheduler/internal/core/ports"
)

// ListAppointments returns one page of upcoming appointments visible to the
// caller. Admins see every appointment; anyone else only their own.
func (s *AppointmentService) ListAppointments(ctx context.Context, caller domain.Caller, in ports.ListAppointmentsInput) (*ports.ListAppointmentsResult, error) {
	page := in.Page
	if page <= 0 {
		page = 1
	}
	limit := in.Limit
	if limit < 0 {
		limit = 0
	}

	filter := ports.ListAppointmentsFilter{
		StartsAfter: s.now().UTC(),
		Limit:       limit,
	}
	if !caller.IsAdmin() {
		if caller.UserID == "" {
			return nil, domain.ErrForbidden
		}
		filter.UserID = caller.UserID
	}

	// Without a limit the first page already holds everything.
	if limit == 0 && page > 1 {
		return &ports.ListAppointmentsResult{Data: []*domain.Appointment{}}, nil
	}
	if limit > 0 {
		filter.Offset = (page - 1) * limit
	}

	items, total, err := s.appointments.List(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", caller.UserID).Msg("list appointments failed")
		return nil, domain.Operational(msgListAppointments, err)
	}
	if items == nil {
		items = []*domain.Appointment{}
	}

	return &ports.ListAppointmentsResult{
		Data:    items,
		HasMore: limit > 0 && total > int64(page)*int64(limit),
	}, nil
}

// ListForCalendar returns every appointment starting within [from, to],
// regardless of owner.
func (s *AppointmentService) ListForCalendar(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	if from.After(to) {
		return nil, domain.ErrInvalidRange
	}
	items, err := s.appointments.ListBetween(ctx, from.UTC(), to.UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("calendar query failed")
		return nil, domain.Operational(msgListAppointments, err)
	}
	if items == nil {
		items = []*domain.Appointment{}
	}
	return items, nil
}

// GetAppointment reads one appointment. Appointments owned by someone else are
// reported as missing to non-admin callers.
func (s *AppointmentService) GetAppointment(ctx context.Context, caller domain.Caller, id string) (*domain.Appointment, error) {
	a, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(msgGetAppointment, err)
	}
	if !caller.Owns(a.UserID) {
		return nil, domain.ErrAppointmentNotFound
	}
	return a, nil
}
