package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

const (
	usersCollection        = "users"
	appointmentsCollection = "appointments"
	eventsCollection       = "appointment_events"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	Address      string             `bson:"address"`
	Phone        string             `bson:"phone"`
	DateOfBirth  time.Time          `bson:"date_of_birth"`
	Role         string             `bson:"role"`
	PasswordHash string             `bson:"password_hash,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		Address:      d.Address,
		Phone:        d.Phone,
		DateOfBirth:  d.DateOfBirth.UTC(),
		Role:         domain.ParseRole(d.Role),
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

type userSummaryDoc struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

type appointmentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Type      string             `bson:"type"`
	Notes     string             `bson:"notes,omitempty"`
	StartAt   time.Time          `bson:"start_at"`
	EndAt     time.Time          `bson:"end_at"`
	UserID    primitive.ObjectID `bson:"user_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`

	// Populated by the $lookup stage of List only.
	User *userSummaryDoc `bson:"user,omitempty"`
}

func (d *appointmentDoc) toDomain() *domain.Appointment {
	a := &domain.Appointment{
		ID:        d.ID.Hex(),
		Type:      d.Type,
		Notes:     d.Notes,
		StartAt:   d.StartAt.UTC(),
		EndAt:     d.EndAt.UTC(),
		UserID:    d.UserID.Hex(),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if d.User != nil {
		a.User = &domain.UserSummary{ID: d.User.ID.Hex(), Name: d.User.Name, Email: d.User.Email}
	}
	return a
}

type auditEventDoc struct {
	ID            string    `bson:"_id"`
	AppointmentID string    `bson:"appointment_id"`
	Action        string    `bson:"action"`
	ActorID       string    `bson:"actor_id,omitempty"`
	ActorRole     string    `bson:"actor_role,omitempty"`
	StartAt       time.Time `bson:"start_at"`
	EndAt         time.Time `bson:"end_at"`
	OccurredAt    time.Time `bson:"occurred_at"`
}

func (d *auditEventDoc) toDomain() *domain.AuditEvent {
	return &domain.AuditEvent{
		ID:            d.ID,
		AppointmentID: d.AppointmentID,
		Action:        domain.AuditAction(d.Action),
		ActorID:       d.ActorID,
		ActorRole:     domain.Role(d.ActorRole),
		StartAt:       d.StartAt.UTC(),
		EndAt:         d.EndAt.UTC(),
		OccurredAt:    d.OccurredAt.UTC(),
	}
}
