package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
	"github.com/sirpyerre/appointment-scheduler/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var errStorage = errors.New("connection refused")

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	seq     int
	findErr error
	listErr error
	// appointments, when set, receives the cascade on Delete.
	appointments *stubAppointmentRepo
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("b%023x", r.seq)
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for id, existing := range r.byID {
		if id != u.ID && existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.byID[id]; !ok {
		r.mu.Unlock()
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	r.mu.Unlock()

	if r.appointments != nil {
		r.appointments.deleteByUser(id)
	}
	return nil
}

type stubAppointmentRepo struct {
	mu         sync.Mutex
	byID       map[string]*domain.Appointment
	seq        int
	users      *stubUserRepo
	overlapErr error
	listErr    error
	createErr  error
	creates    int
	updates    int
	lastFilter ports.ListAppointmentsFilter
}

func newStubAppointmentRepo(users *stubUserRepo) *stubAppointmentRepo {
	return &stubAppointmentRepo{byID: make(map[string]*domain.Appointment), users: users}
}

func cloneAppointment(a *domain.Appointment) *domain.Appointment {
	clone := *a
	return &clone
}

func (r *stubAppointmentRepo) add(a *domain.Appointment) *domain.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = cloneAppointment(a)
	return a
}

func (r *stubAppointmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	a.ID = fmt.Sprintf("a%023x", r.seq)
	r.byID[a.ID] = cloneAppointment(a)
	return nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	return cloneAppointment(a), nil
}

func (r *stubAppointmentRepo) Update(_ context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if _, ok := r.byID[a.ID]; !ok {
		return domain.ErrAppointmentNotFound
	}
	r.byID[a.ID] = cloneAppointment(a)
	return nil
}

func (r *stubAppointmentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAppointmentNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubAppointmentRepo) deleteByUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.byID {
		if a.UserID == userID {
			delete(r.byID, id)
		}
	}
}

// HasOverlap mirrors the SQL predicate start_at <= end AND end_at >= start.
func (r *stubAppointmentRepo) HasOverlap(_ context.Context, slot domain.Slot, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overlapErr != nil {
		return false, r.overlapErr
	}
	for id, a := range r.byID {
		if id == excludeID {
			continue
		}
		if a.Slot().Overlaps(slot) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAppointmentRepo) sorted() []*domain.Appointment {
	out := make([]*domain.Appointment, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, cloneAppointment(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].StartAt.Before(out[j].StartAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *stubAppointmentRepo) List(_ context.Context, f ports.ListAppointmentsFilter) ([]*domain.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = f
	if r.listErr != nil {
		return nil, 0, r.listErr
	}

	var matched []*domain.Appointment
	for _, a := range r.sorted() {
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if a.StartAt.Before(f.StartsAfter) {
			continue
		}
		if r.users != nil {
			if u, err := r.users.FindByID(context.Background(), a.UserID); err == nil {
				a.User = &domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
			}
		}
		matched = append(matched, a)
	}
	total := int64(len(matched))

	if f.Offset >= len(matched) {
		return []*domain.Appointment{}, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func (r *stubAppointmentRepo) ListBetween(_ context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Appointment
	for _, a := range r.sorted() {
		if a.StartAt.Before(from) || a.StartAt.After(to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type stubAuditSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *stubAuditSink) Enqueue(e domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

type stubAuditRepo struct {
	events    []*domain.AuditEvent
	insertErr error
}

func (r *stubAuditRepo) Insert(_ context.Context, e *domain.AuditEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *e
	r.events = append(r.events, &clone)
	return nil
}

func (r *stubAuditRepo) ListByAppointment(_ context.Context, id string) ([]*domain.AuditEvent, error) {
	var out []*domain.AuditEvent
	for _, e := range r.events {
		if e.AppointmentID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var baseTime = time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return baseTime.Add(time.Duration(hour-9)*time.Hour + time.Duration(minute)*time.Minute)
}

var (
	adminCaller = domain.Caller{UserID: "000000000000000000000a01", Role: domain.RoleAdmin}
	aliceCaller = domain.Caller{UserID: "000000000000000000000001", Role: domain.RoleUser}
	bobCaller   = domain.Caller{UserID: "000000000000000000000002", Role: domain.RoleUser}
)

type fixture struct {
	users        *stubUserRepo
	appointments *stubAppointmentRepo
	audit        *stubAuditSink
	svc          *AppointmentService
}

func newFixture() *fixture {
	users := newStubUserRepo()
	appointments := newStubAppointmentRepo(users)
	users.appointments = appointments
	users.add(&domain.User{ID: aliceCaller.UserID, Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser})
	users.add(&domain.User{ID: bobCaller.UserID, Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser})
	users.add(&domain.User{ID: adminCaller.UserID, Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin})

	audit := &stubAuditSink{}
	svc := NewAppointmentService(appointments, users, nil, audit, discardLogger)
	// Freeze the clock one hour before the test appointments.
	svc.now = func() time.Time { return baseTime.Add(-time.Hour) }

	return &fixture{users: users, appointments: appointments, audit: audit, svc: svc}
}

func (f *fixture) seed(id, userID string, start, end time.Time) *domain.Appointment {
	return f.appointments.add(&domain.Appointment{ID: id, Type: "checkup", StartAt: start, EndAt: end, UserID: userID})
}

func input(userID string, start, end time.Time) ports.AppointmentInput {
	return ports.AppointmentInput{Type: "checkup", StartAt: start, EndAt: end, UserID: userID}
}
