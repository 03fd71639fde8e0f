package handler

import (
	"strconv"
	"time"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
	"github.com/sirpyerre/appointment-scheduler/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// validationErrorResponse is returned when request validation fails.
type validationErrorResponse struct {
	Errors []string `json:"errors"`
}

// --- Path / query parameters ---

type idParams struct {
	ID string `param:"id" validate:"objectid"`
}

type userIDParams struct {
	UserID string `param:"userId" validate:"objectid"`
}

type listAppointmentsQuery struct {
	Page  string `query:"page"  validate:"omitempty,posint"`
	Limit string `query:"limit" validate:"omitempty,posint"`
}

type calendarQuery struct {
	From string `query:"from" validate:"required,isostring"`
	To   string `query:"to"   validate:"required,isostring"`
}

// --- Request bodies ---

type appointmentRequest struct {
	ID      string `json:"id,omitempty" validate:"omitempty,objectid"`
	Type    string `json:"type"         validate:"required"`
	Notes   string `json:"notes,omitempty"`
	StartAt string `json:"startAt"      validate:"required,isostring"`
	EndAt   string `json:"endAt"        validate:"required,isostring,isoafter=StartAt"`
	UserID  string `json:"userId"       validate:"required,objectid"`
}

type availabilityRequest struct {
	StartAt   string `json:"startAt"             validate:"required,isostring"`
	EndAt     string `json:"endAt"               validate:"required,isostring,isoafter=StartAt"`
	ExcludeID string `json:"excludeId,omitempty" validate:"omitempty,objectid"`
}

type userRequest struct {
	ID          string `json:"id,omitempty"       validate:"omitempty,objectid"`
	Name        string `json:"name"               validate:"required"`
	Email       string `json:"email"              validate:"required,email"`
	Address     string `json:"address"            validate:"required"`
	Phone       string `json:"phone"              validate:"required"`
	DateOfBirth string `json:"dateOfBirth"        validate:"required,isostring"`
	Role        string `json:"role,omitempty"     validate:"omitempty,oneof=USER ADMIN"`
	Password    string `json:"password,omitempty" validate:"omitempty,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Responses ---

type userSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type appointmentResponse struct {
	ID        string               `json:"id"`
	Type      string               `json:"type"`
	Notes     string               `json:"notes,omitempty"`
	StartAt   string               `json:"startAt"`
	EndAt     string               `json:"endAt"`
	UserID    string               `json:"userId"`
	CreatedAt string               `json:"createdAt,omitempty"`
	UpdatedAt string               `json:"updatedAt,omitempty"`
	User      *userSummaryResponse `json:"user,omitempty"`
}

type listAppointmentsResponse struct {
	Data    []appointmentResponse `json:"data"`
	HasMore bool                  `json:"hasMore"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

type auditEventResponse struct {
	ID            string `json:"id"`
	AppointmentID string `json:"appointmentId"`
	Action        string `json:"action"`
	ActorID       string `json:"actorId,omitempty"`
	ActorRole     string `json:"actorRole,omitempty"`
	StartAt       string `json:"startAt"`
	EndAt         string `json:"endAt"`
	OccurredAt    string `json:"occurredAt"`
}

type userResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Role        string `json:"role"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// --- Request → Service input ---

// Values reaching these mappers already passed validation, so the parse
// cannot fail.

func mustParseISO(s string) time.Time {
	t, _ := parseISO(s)
	return t
}

func toAppointmentInput(req appointmentRequest) ports.AppointmentInput {
	return ports.AppointmentInput{
		ID:      req.ID,
		Type:    req.Type,
		Notes:   req.Notes,
		StartAt: mustParseISO(req.StartAt),
		EndAt:   mustParseISO(req.EndAt),
		UserID:  req.UserID,
	}
}

func toListInput(q listAppointmentsQuery) ports.ListAppointmentsInput {
	page, _ := strconv.Atoi(q.Page)
	limit, _ := strconv.Atoi(q.Limit)
	return ports.ListAppointmentsInput{Page: page, Limit: limit}
}

func toUserInput(req userRequest) ports.UserInput {
	return ports.UserInput{
		ID:          req.ID,
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		Phone:       req.Phone,
		DateOfBirth: mustParseISO(req.DateOfBirth),
		Role:        domain.Role(req.Role),
		Password:    req.Password,
	}
}

// --- Domain → Response ---

func optionalISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return formatISO(t)
}

func toAppointmentResponse(a *domain.Appointment) appointmentResponse {
	resp := appointmentResponse{
		ID:        a.ID,
		Type:      a.Type,
		Notes:     a.Notes,
		StartAt:   formatISO(a.StartAt),
		EndAt:     formatISO(a.EndAt),
		UserID:    a.UserID,
		CreatedAt: optionalISO(a.CreatedAt),
		UpdatedAt: optionalISO(a.UpdatedAt),
	}
	if a.User != nil {
		resp.User = &userSummaryResponse{ID: a.User.ID, Name: a.User.Name, Email: a.User.Email}
	}
	return resp
}

func toAppointmentResponses(items []*domain.Appointment) []appointmentResponse {
	out := make([]appointmentResponse, len(items))
	for i, a := range items {
		out[i] = toAppointmentResponse(a)
	}
	return out
}

func toAuditEventResponses(events []*domain.AuditEvent) []auditEventResponse {
	out := make([]auditEventResponse, len(events))
	for i, e := range events {
		out[i] = auditEventResponse{
			ID:            e.ID,
			AppointmentID: e.AppointmentID,
			Action:        string(e.Action),
			ActorID:       e.ActorID,
			ActorRole:     string(e.ActorRole),
			StartAt:       formatISO(e.StartAt),
			EndAt:         formatISO(e.EndAt),
			OccurredAt:    formatISO(e.OccurredAt),
		}
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Address:     u.Address,
		Phone:       u.Phone,
		DateOfBirth: optionalISO(u.DateOfBirth),
		Role:        string(u.Role),
		CreatedAt:   optionalISO(u.CreatedAt),
		UpdatedAt:   optionalISO(u.UpdatedAt),
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}
