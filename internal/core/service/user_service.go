package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
	"github.com/sirpyerre/appointment-scheduler/internal/core/ports"
)

type UserService struct {
	repo         ports.UserRepository
	appointments ports.AppointmentRepository
	audit        ports.AuditSink
	log          zerolog.Logger
	now          func() time.Time
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log, now: time.Now}
}

// WithAppointmentHistory makes DeleteUser record a deleted event for every
// appointment removed along with the user.
func (s *UserService) WithAppointmentHistory(appointments ports.AppointmentRepository, audit ports.AuditSink) *UserService {
	s.appointments = appointments
	s.audit = audit
	return s
}

// ListUsers returns every user. Admin only.
func (s *UserService) ListUsers(ctx context.Context, caller domain.Caller) ([]*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list users failed")
		return nil, domain.Operational(msgListUsers, err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, caller domain.Caller, id string) (*domain.User, error) {
	if !caller.Owns(id) {
		return nil, domain.ErrForbidden
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr(msgGetUser, err)
	}
	return u, nil
}

// CreateUser registers a new user. Anyone may sign up as USER; creating an
// ADMIN requires an admin caller.
func (s *UserService) CreateUser(ctx context.Context, caller domain.Caller, in ports.UserInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.IsValid() {
		return nil, domain.Validation("role must be one of: USER ADMIN")
	}
	if role == domain.RoleAdmin && !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	u := &domain.User{
		Name:        in.Name,
		Email:       normalizeEmail(in.Email),
		Address:     in.Address,
		Phone:       in.Phone,
		DateOfBirth: in.DateOfBirth.UTC(),
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return nil, domain.Operational(msgCreateUser, err)
		}
		u.PasswordHash = hash
	}

	if err := s.repo.Create(ctx, u); err != nil {
		err = storageErr(msgCreateUser, err)
		if domain.KindOf(err) == domain.KindOperational {
			s.log.Error().Err(err).Str("email", u.Email).Msg("create user failed")
		}
		return nil, err
	}

	s.log.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("user created")
	return u, nil
}

// UpdateUser replaces the user stored under pathID. Only admins may change roles.
func (s *UserService) UpdateUser(ctx context.Context, caller domain.Caller, pathID string, in ports.UserInput) (*domain.User, error) {
	if in.ID != "" && in.ID != pathID {
		return nil, domain.ErrUserIDsMismatch
	}
	if !caller.Owns(pathID) {
		return nil, domain.ErrForbidden
	}

	existing, err := s.repo.FindByID(ctx, pathID)
	if err != nil {
		return nil, storageErr(msgGetUser, err)
	}

	role := in.Role
	if role == "" {
		role = existing.Role
	}
	if !role.IsValid() {
		return nil, domain.Validation("role must be one of: USER ADMIN")
	}
	if role != existing.Role && !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	updated := &domain.User{
		ID:           pathID,
		Name:         in.Name,
		Email:        normalizeEmail(in.Email),
		Address:      in.Address,
		Phone:        in.Phone,
		DateOfBirth:  in.DateOfBirth.UTC(),
		Role:         role,
		PasswordHash: existing.PasswordHash,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}
	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return nil, domain.Operational(msgUpdateUser, err)
		}
		updated.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		err = storageErr(msgUpdateUser, err)
		if domain.KindOf(err) == domain.KindOperational {
			s.log.Error().Err(err).Str("user_id", pathID).Msg("update user failed")
		}
		return nil, err
	}
	return updated, nil
}

// DeleteUser removes a user and, with it, all of its appointments.
func (s *UserService) DeleteUser(ctx context.Context, caller domain.Caller, id string) error {
	if !caller.Owns(id) {
		return domain.ErrForbidden
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return storageErr(msgGetUser, err)
	}
	owned := s.ownedAppointments(ctx, id)
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("user_id", id).Msg("delete user failed")
		return storageErr(msgDeleteUser, err)
	}
	for _, a := range owned {
		s.audit.Enqueue(auditEvent(caller, domain.AuditDeleted, a, s.now()))
	}
	s.log.Info().Str("user_id", id).Int("appointments", len(owned)).Msg("user deleted")
	return nil
}

// ownedAppointments lists every appointment of userID, past ones included.
// A lookup failure does not block the delete.
func (s *UserService) ownedAppointments(ctx context.Context, userID string) []*domain.Appointment {
	if s.appointments == nil || s.audit == nil {
		return nil
	}
	items, _, err := s.appointments.List(ctx, ports.ListAppointmentsFilter{UserID: userID})
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("list appointments of deleted user failed")
		return nil
	}
	return items
}

// EnsureAdmin creates an ADMIN with the given credentials unless a user with
// that email already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return storageErr(msgGetUser, err)
	}

	admin := domain.Caller{Role: domain.RoleAdmin}
	_, err = s.CreateUser(ctx, admin, ports.UserInput{
		Name:     "Administrator",
		Email:    email,
		Role:     domain.RoleAdmin,
		Password: password,
	})
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	return err
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
