package ports

import (
	"context"
	"time"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

// UserInput is the full user body received from the transport layer.
type UserInput struct {
	ID          string // optional on update; must match the path id when present
	Name        string
	Email       string
	Address     string
	Phone       string
	DateOfBirth time.Time
	Role        domain.Role // empty defaults to USER
	Password    string      // optional; empty keeps the current hash on update
}

// UserService defines use-case operations for users.
type UserService interface {
	ListUsers(ctx context.Context, caller domain.Caller) ([]*domain.User, error)
	GetUser(ctx context.Context, caller domain.Caller, id string) (*domain.User, error)
	CreateUser(ctx context.Context, caller domain.Caller, in UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, caller domain.Caller, pathID string, in UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, caller domain.Caller, id string) error
	EnsureAdmin(ctx context.Context, email, password string) error
}
