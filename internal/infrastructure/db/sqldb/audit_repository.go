package sqldb

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEvent) error {
	if err := r.db.WithContext(ctx).Create(auditFromDomain(e)).Error; err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListByAppointment(ctx context.Context, appointmentID string) ([]*domain.AuditEvent, error) {
	var models []auditEventModel
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("occurred_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	out := make([]*domain.AuditEvent, len(models))
	for i := range models {
		out[i] = models[i].toDomain()
	}
	return out, nil
}
