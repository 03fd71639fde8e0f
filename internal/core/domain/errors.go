package domain

import "errors"

// Kind classifies a failure so callers can branch on it without inspecting
// concrete types.
type Kind int

const (
	KindOperational Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "operational"
	}
}

// Error is the single error type returned by the core. Message is safe to show
// to API clients; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by identity and, for wrapped copies, by kind and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || (e.Kind == t.Kind && e.Message == t.Message)
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Operational wraps an infrastructure failure behind a fixed, client-safe message.
func Operational(msg string, err error) *Error {
	return &Error{Kind: KindOperational, Message: msg, Err: err}
}

// Validation builds a client input error.
func Validation(msg string) *Error {
	return newError(KindValidation, msg)
}

// KindOf reports the kind of err. Errors that are not *Error are operational.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindOperational
}

// MessageOf returns the client-facing message carried by err.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal server error"
}

var (
	ErrUserNotFound          = newError(KindNotFound, "User not found")
	ErrAppointmentNotFound   = newError(KindNotFound, "Appointment not found")
	ErrUserIDMismatch        = newError(KindConflict, "UserId does not match")
	ErrAppointmentIDMismatch = newError(KindConflict, "Appointments ids do not match")
	ErrUserIDsMismatch       = newError(KindConflict, "Users ids do not match")
	ErrSlotUnavailable       = newError(KindConflict, "The slot you selected is not available, please select another time")
	ErrUserExists            = newError(KindConflict, "User already exists")
	ErrInvalidRange          = newError(KindValidation, "from must not be after to")
	ErrForbidden             = newError(KindForbidden, "access forbidden")
	ErrInvalidCredentials    = newError(KindUnauthorized, "invalid credentials")
)
