package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
	"github.com/sirpyerre/appointment-scheduler/internal/core/ports"
)

// AuditService persists and reads the appointment change history.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

// Record stores one event, filling in its id and timestamp when missing.
func (s *AuditService) Record(ctx context.Context, e domain.AuditEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if err := s.repo.Insert(ctx, &e); err != nil {
		return domain.Operational("Error while recording appointment history", err)
	}
	s.log.Debug().
		Str("appointment_id", e.AppointmentID).
		Str("action", string(e.Action)).
		Msg("audit event recorded")
	return nil
}

// History lists the events of one appointment, oldest first.
func (s *AuditService) History(ctx context.Context, appointmentID string) ([]*domain.AuditEvent, error) {
	events, err := s.repo.ListByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, storageErr(msgHistory, err)
	}
	if len(events) == 0 {
		return nil, domain.ErrAppointmentNotFound
	}
	return events, nil
}
