package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
	"github.com/sirpyerre/appointment-scheduler/internal/core/ports"
)

// All appointments compete for one schedule, so a single lock key guards them.
const slotLockKey = "appointments:slots"

type AppointmentService struct {
	appointments ports.AppointmentRepository
	users        ports.UserRepository
	lock         ports.SlotLock
	audit        ports.AuditSink
	log          zerolog.Logger
	now          func() time.Time
}

// NewAppointmentService wires the appointment use cases. A nil lock falls back
// to an in-process lock; a nil audit sink disables the change history.
func NewAppointmentService(
	appointments ports.AppointmentRepository,
	users ports.UserRepository,
	lock ports.SlotLock,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AppointmentService {
	if lock == nil {
		lock = NewLocalSlotLock()
	}
	return &AppointmentService{
		appointments: appointments,
		users:        users,
		lock:         lock,
		audit:        audit,
		log:          log,
		now:          time.Now,
	}
}

// CreateAppointment books a new appointment for pathUserID.
func (s *AppointmentService) CreateAppointment(ctx context.Context, caller domain.Caller, pathUserID string, in ports.AppointmentInput) (*domain.Appointment, error) {
	if in.UserID != pathUserID {
		return nil, domain.ErrUserIDMismatch
	}
	if !caller.Owns(in.UserID) {
		return nil, domain.ErrForbidden
	}
	if err := validateSlot(in.StartAt, in.EndAt); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, in.UserID); err != nil {
		return nil, storageErr(msgGetUser, err)
	}

	a := &domain.Appointment{
		Type:    in.Type,
		Notes:   in.Notes,
		StartAt: in.StartAt.UTC(),
		EndAt:   in.EndAt.UTC(),
		UserID:  in.UserID,
	}
	err := s.reserve(ctx, a.Slot(), "", msgCreateAppointment, func() error {
		if err := s.appointments.Create(ctx, a); err != nil {
			return storageErr(msgCreateAppointment, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(err, "create appointment", in.UserID)
		return nil, err
	}

	s.record(caller, domain.AuditCreated, a)
	s.log.Info().Str("appointment_id", a.ID).Str("user_id", a.UserID).Msg("appointment created")
	return a, nil
}

// UpdateAppointment replaces the appointment stored under pathID.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, caller domain.Caller, pathID string, in ports.AppointmentInput) (*domain.Appointment, error) {
	if in.ID != "" && in.ID != pathID {
		return nil, domain.ErrAppointmentIDMismatch
	}
	if err := validateSlot(in.StartAt, in.EndAt); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, in.UserID); err != nil {
		return nil, storageErr(msgGetUser, err)
	}

	existing, err := s.appointments.FindByID(ctx, pathID)
	if err != nil {
		return nil, storageErr(msgGetAppointment, err)
	}
	if !caller.Owns(existing.UserID) {
		return nil, domain.ErrAppointmentNotFound
	}
	if !caller.Owns(in.UserID) {
		return nil, domain.ErrForbidden
	}

	updated := &domain.Appointment{
		ID:        pathID,
		Type:      in.Type,
		Notes:     in.Notes,
		StartAt:   in.StartAt.UTC(),
		EndAt:     in.EndAt.UTC(),
		UserID:    in.UserID,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: s.now().UTC(),
	}
	err = s.reserve(ctx, updated.Slot(), pathID, msgUpdateAppointment, func() error {
		if err := s.appointments.Update(ctx, updated); err != nil {
			return storageErr(msgUpdateAppointment, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(err, "update appointment", in.UserID)
		return nil, err
	}

	s.record(caller, domain.AuditUpdated, updated)
	s.log.Info().Str("appointment_id", pathID).Msg("appointment updated")
	return updated, nil
}

// DeleteAppointment permanently removes an appointment.
func (s *AppointmentService) DeleteAppointment(ctx context.Context, caller domain.Caller, id string) error {
	existing, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return storageErr(msgGetAppointment, err)
	}
	if !caller.Owns(existing.UserID) {
		return domain.ErrAppointmentNotFound
	}
	if err := s.appointments.Delete(ctx, id); err != nil {
		err = storageErr(msgDeleteAppointment, err)
		s.logFailure(err, "delete appointment", existing.UserID)
		return err
	}

	s.record(caller, domain.AuditDeleted, existing)
	s.log.Info().Str("appointment_id", id).Msg("appointment deleted")
	return nil
}

func validateSlot(startAt, endAt time.Time) error {
	if !startAt.Before(endAt) {
		return domain.Validation("startAt must be before endAt")
	}
	return nil
}

func (s *AppointmentService) record(caller domain.Caller, action domain.AuditAction, a *domain.Appointment) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(auditEvent(caller, action, a, s.now()))
}

func auditEvent(caller domain.Caller, action domain.AuditAction, a *domain.Appointment, at time.Time) domain.AuditEvent {
	return domain.AuditEvent{
		AppointmentID: a.ID,
		Action:        action,
		ActorID:       caller.UserID,
		ActorRole:     caller.Role,
		StartAt:       a.StartAt,
		EndAt:         a.EndAt,
		OccurredAt:    at.UTC(),
	}
}

func (s *AppointmentService) logFailure(err error, op, userID string) {
	if domain.KindOf(err) != domain.KindOperational {
		return
	}
	s.log.Error().Err(err).Str("user_id", userID).Msg(op + " failed")
}
