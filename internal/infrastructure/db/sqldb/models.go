package sqldb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

// newID returns a 24-character hex id so every backend hands out the same
// id format.
func newID() string {
	return primitive.NewObjectID().Hex()
}

type userModel struct {
	ID           string    `gorm:"column:id;type:varchar(24);primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	Address      string    `gorm:"column:address"`
	Phone        string    `gorm:"column:phone"`
	DateOfBirth  time.Time `gorm:"column:date_of_birth"`
	Role         string    `gorm:"column:role;type:varchar(10);not null;default:'USER'"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (userModel) TableName() string { return "users" }

func userFromDomain(u *domain.User) *userModel {
	return &userModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Address:      u.Address,
		Phone:        u.Phone,
		DateOfBirth:  u.DateOfBirth.UTC(),
		Role:         string(u.Role),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Address:      m.Address,
		Phone:        m.Phone,
		DateOfBirth:  m.DateOfBirth.UTC(),
		Role:         domain.ParseRole(m.Role),
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type appointmentModel struct {
	ID        string     `gorm:"column:id;type:varchar(24);primaryKey"`
	Type      string     `gorm:"column:type;not null"`
	Notes     string     `gorm:"column:notes;type:text"`
	StartAt   time.Time  `gorm:"column:start_at;not null;index:idx_appointments_start_at"`
	EndAt     time.Time  `gorm:"column:end_at;not null"`
	UserID    string     `gorm:"column:user_id;type:varchar(24);not null;index"`
	User      *userModel `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (appointmentModel) TableName() string { return "appointments" }

func appointmentFromDomain(a *domain.Appointment) *appointmentModel {
	return &appointmentModel{
		ID:        a.ID,
		Type:      a.Type,
		Notes:     a.Notes,
		StartAt:   a.StartAt.UTC(),
		EndAt:     a.EndAt.UTC(),
		UserID:    a.UserID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (m *appointmentModel) toDomain() *domain.Appointment {
	a := &domain.Appointment{
		ID:        m.ID,
		Type:      m.Type,
		Notes:     m.Notes,
		StartAt:   m.StartAt.UTC(),
		EndAt:     m.EndAt.UTC(),
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	if m.User != nil {
		a.User = &domain.UserSummary{ID: m.User.ID, Name: m.User.Name, Email: m.User.Email}
	}
	return a
}

type auditEventModel struct {
	ID            string    `gorm:"column:id;type:varchar(36);primaryKey"`
	AppointmentID string    `gorm:"column:appointment_id;type:varchar(24);not null;index"`
	Action        string    `gorm:"column:action;type:varchar(16);not null"`
	ActorID       string    `gorm:"column:actor_id;type:varchar(24)"`
	ActorRole     string    `gorm:"column:actor_role;type:varchar(10)"`
	StartAt       time.Time `gorm:"column:start_at"`
	EndAt         time.Time `gorm:"column:end_at"`
	OccurredAt    time.Time `gorm:"column:occurred_at;not null;index"`
}

func (auditEventModel) TableName() string { return "appointment_events" }

func auditFromDomain(e *domain.AuditEvent) *auditEventModel {
	return &auditEventModel{
		ID:            e.ID,
		AppointmentID: e.AppointmentID,
		Action:        string(e.Action),
		ActorID:       e.ActorID,
		ActorRole:     string(e.ActorRole),
		StartAt:       e.StartAt.UTC(),
		EndAt:         e.EndAt.UTC(),
		OccurredAt:    e.OccurredAt.UTC(),
	}
}

func (m *auditEventModel) toDomain() *domain.AuditEvent {
	return &domain.AuditEvent{
		ID:            m.ID,
		AppointmentID: m.AppointmentID,
		Action:        domain.AuditAction(m.Action),
		ActorID:       m.ActorID,
		ActorRole:     domain.Role(m.ActorRole),
		StartAt:       m.StartAt.UTC(),
		EndAt:         m.EndAt.UTC(),
		OccurredAt:    m.OccurredAt.UTC(),
	}
}
