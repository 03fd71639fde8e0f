package service

import (
	"context"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

// IsAvailable reports whether slot is free across every appointment in the
// store. excludeID removes one appointment from the scan so an update does
// not collide with its own previous record.
func (s *AppointmentService) IsAvailable(ctx context.Context, slot domain.Slot, excludeID string) (bool, error) {
	taken, err := s.appointments.HasOverlap(ctx, slot, excludeID)
	if err != nil {
		return false, domain.Operational(msgCheckAvailability, err)
	}
	return !taken, nil
}

// reserve runs fn while holding the global slot lock, after confirming that
// slot is still free.
func (s *AppointmentService) reserve(ctx context.Context, slot domain.Slot, excludeID, failMsg string, fn func() error) error {
	release, err := s.lock.Acquire(ctx, slotLockKey)
	if err != nil {
		return domain.Operational(failMsg, err)
	}
	defer release()

	ok, err := s.IsAvailable(ctx, slot, excludeID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrSlotUnavailable
	}
	return fn()
}
