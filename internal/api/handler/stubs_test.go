package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
	"github.com/sirpyerre/appointment-scheduler/internal/core/ports"
)

const (
	aliceID = "000000000000000000000001"
	apptID  = "0000000000000000000000aa"
)

type stubAppointmentService struct {
	isAvailableFn func(ctx context.Context, slot domain.Slot, excludeID string) (bool, error)
	listFn        func(ctx context.Context, caller domain.Caller, in ports.ListAppointmentsInput) (*ports.ListAppointmentsResult, error)
	calendarFn    func(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error)
	getFn         func(ctx context.Context, caller domain.Caller, id string) (*domain.Appointment, error)
	createFn      func(ctx context.Context, caller domain.Caller, pathUserID string, in ports.AppointmentInput) (*domain.Appointment, error)
	updateFn      func(ctx context.Context, caller domain.Caller, pathID string, in ports.AppointmentInput) (*domain.Appointment, error)
	deleteFn      func(ctx context.Context, caller domain.Caller, id string) error
}

func (s *stubAppointmentService) IsAvailable(ctx context.Context, slot domain.Slot, excludeID string) (bool, error) {
	return s.isAvailableFn(ctx, slot, excludeID)
}

func (s *stubAppointmentService) ListAppointments(ctx context.Context, caller domain.Caller, in ports.ListAppointmentsInput) (*ports.ListAppointmentsResult, error) {
	return s.listFn(ctx, caller, in)
}

func (s *stubAppointmentService) ListForCalendar(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error) {
	return s.calendarFn(ctx, from, to)
}

func (s *stubAppointmentService) GetAppointment(ctx context.Context, caller domain.Caller, id string) (*domain.Appointment, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubAppointmentService) CreateAppointment(ctx context.Context, caller domain.Caller, pathUserID string, in ports.AppointmentInput) (*domain.Appointment, error) {
	return s.createFn(ctx, caller, pathUserID, in)
}

func (s *stubAppointmentService) UpdateAppointment(ctx context.Context, caller domain.Caller, pathID string, in ports.AppointmentInput) (*domain.Appointment, error) {
	return s.updateFn(ctx, caller, pathID, in)
}

func (s *stubAppointmentService) DeleteAppointment(ctx context.Context, caller domain.Caller, id string) error {
	return s.deleteFn(ctx, caller, id)
}

type stubAuditService struct {
	historyFn func(ctx context.Context, appointmentID string) ([]*domain.AuditEvent, error)
}

func (s *stubAuditService) Record(context.Context, domain.AuditEvent) error { return nil }

func (s *stubAuditService) History(ctx context.Context, appointmentID string) ([]*domain.AuditEvent, error) {
	return s.historyFn(ctx, appointmentID)
}

type stubUserService struct {
	listFn   func(ctx context.Context, caller domain.Caller) ([]*domain.User, error)
	getFn    func(ctx context.Context, caller domain.Caller, id string) (*domain.User, error)
	createFn func(ctx context.Context, caller domain.Caller, in ports.UserInput) (*domain.User, error)
	updateFn func(ctx context.Context, caller domain.Caller, pathID string, in ports.UserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, caller domain.Caller, id string) error
}

func (s *stubUserService) ListUsers(ctx context.Context, caller domain.Caller) ([]*domain.User, error) {
	return s.listFn(ctx, caller)
}

func (s *stubUserService) GetUser(ctx context.Context, caller domain.Caller, id string) (*domain.User, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubUserService) CreateUser(ctx context.Context, caller domain.Caller, in ports.UserInput) (*domain.User, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubUserService) UpdateUser(ctx context.Context, caller domain.Caller, pathID string, in ports.UserInput) (*domain.User, error) {
	return s.updateFn(ctx, caller, pathID, in)
}

func (s *stubUserService) DeleteUser(ctx context.Context, caller domain.Caller, id string) error {
	return s.deleteFn(ctx, caller, id)
}

func (s *stubUserService) EnsureAdmin(context.Context, string, string) error { return nil }

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

// newContext builds an echo context with the validator installed. params are
// name/value pairs for the route parameters.
func newContext(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func authenticate(c echo.Context, userID string, role domain.Role) {
	c.Set("user_id", userID)
	c.Set("role", string(role))
}

func sampleAppointment() *domain.Appointment {
	start := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Appointment{
		ID:      apptID,
		Type:    "checkup",
		StartAt: start,
		EndAt:   start.Add(30 * time.Minute),
		UserID:  aliceID,
		User:    &domain.UserSummary{ID: aliceID, Name: "Alice", Email: "alice@example.com"},
	}
}

func isValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	return ve
}
