package sqldb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
	"github.com/sirpyerre/appointment-scheduler/internal/core/ports"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	m := appointmentFromDomain(a)
	m.ID = newID()
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if t := translateAppointmentErr(err); t != err {
			return t
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	var m appointmentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return m.toDomain(), nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *domain.Appointment) error {
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now().UTC()
	}
	m := appointmentFromDomain(a)
	res := r.db.WithContext(ctx).Model(&appointmentModel{}).Where("id = ?", a.ID).Updates(map[string]any{
		"type":       m.Type,
		"notes":      m.Notes,
		"start_at":   m.StartAt,
		"end_at":     m.EndAt,
		"user_id":    m.UserID,
		"updated_at": m.UpdatedAt,
	})
	if res.Error != nil {
		if t := translateAppointmentErr(res.Error); t != res.Error {
			return t
		}
		return fmt.Errorf("update appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&appointmentModel{})
	if res.Error != nil {
		return fmt.Errorf("delete appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

// HasOverlap uses closed-interval semantics: start_at <= end AND end_at >= start.
func (r *AppointmentRepository) HasOverlap(ctx context.Context, slot domain.Slot, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&appointmentModel{}).
		Where("start_at <= ? AND end_at >= ?", slot.EndAt.UTC(), slot.StartAt.UTC())
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("overlap query: %w", err)
	}
	return n > 0, nil
}

func (r *AppointmentRepository) List(ctx context.Context, f ports.ListAppointmentsFilter) ([]*domain.Appointment, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("start_at >= ?", f.StartsAfter.UTC())
		if f.UserID != "" {
			db = db.Where("user_id = ?", f.UserID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&appointmentModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	q := r.db.WithContext(ctx).Scopes(scope).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email") }).
		Order("start_at ASC, id ASC").
		Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var models []appointmentModel
	if err := q.Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	return toDomainAppointments(models), total, nil
}

func (r *AppointmentRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	var models []appointmentModel
	err := r.db.WithContext(ctx).
		Where("start_at >= ? AND start_at <= ?", from.UTC(), to.UTC()).
		Order("start_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("calendar query: %w", err)
	}
	return toDomainAppointments(models), nil
}

func toDomainAppointments(models []appointmentModel) []*domain.Appointment {
	out := make([]*domain.Appointment, len(models))
	for i := range models {
		out[i] = models[i].toDomain()
	}
	return out
}
