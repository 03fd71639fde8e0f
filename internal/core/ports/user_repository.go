package ports

import (
	"context"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

// UserRepository defines persistence operations for users.
// Lookups that miss return domain.ErrUserNotFound; a duplicate email on
// Create or Update returns domain.ErrUserExists.
type UserRepository interface {
	// Create assigns a new id to u and stores it.
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update replaces every mutable field of the stored user.
	Update(ctx context.Context, u *domain.User) error
	// Delete removes the user together with all of its appointments.
	Delete(ctx context.Context, id string) error
}
