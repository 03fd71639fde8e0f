package sqldb

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// isDuplicate reports a unique-key violation on any supported driver.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isOverlap reports a violation of the appointments_no_overlap constraint.
func isOverlap(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// translateAppointmentErr maps driver errors on appointment writes to domain errors.
func translateAppointmentErr(err error) error {
	switch {
	case isOverlap(err):
		return domain.ErrSlotUnavailable
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.ErrUserNotFound
	}
	return err
}
