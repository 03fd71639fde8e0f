package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// isoLayout is the only accepted date format: UTC with millisecond precision.
const isoLayout = "2006-01-02T15:04:05.000Z"

// ValidationError carries one "field : message" entry per failing field.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation("isostring", validateISOString)
	_ = v.RegisterValidation("isoafter", validateISOAfter)
	_ = v.RegisterValidation("objectid", validateObjectID)
	_ = v.RegisterValidation("posint", validatePositiveInt)
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return &ValidationError{Messages: msgs}
		}
		return err
	}
	return nil
}

// fieldName reports fields by their wire name.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "param", "query"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// fieldError converts a single ValidationError into a "field : message" entry.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " : is required"
	case "email":
		return field + " : must be a valid email"
	case "isostring":
		return field + " : must be an ISO-8601 date string (YYYY-MM-DDTHH:mm:ss.sssZ)"
	case "isoafter":
		return fmt.Sprintf("%s : must be after %s", field, lowerFirst(fe.Param()))
	case "objectid":
		return field + " : must be a 24 character id"
	case "posint":
		return field + " : must be a positive integer"
	case "oneof":
		return fmt.Sprintf("%s : must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s : must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s : failed validation (%s)", field, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// parseISO accepts only strings that survive a format round trip, so
// "2024-02-30T10:00:00.000Z" and offsets other than Z are rejected.
func parseISO(s string) (time.Time, bool) {
	t, err := time.Parse(isoLayout, s)
	if err != nil || t.UTC().Format(isoLayout) != s {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func formatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func validateISOString(fl validator.FieldLevel) bool {
	_, ok := parseISO(fl.Field().String())
	return ok
}

// validateISOAfter checks that the field is strictly after the named sibling.
// Unparseable values are left to the isostring rule.
func validateISOAfter(fl validator.FieldLevel) bool {
	other := fl.Parent().FieldByName(fl.Param())
	if !other.IsValid() || other.Kind() != reflect.String {
		return false
	}
	end, ok := parseISO(fl.Field().String())
	if !ok {
		return true
	}
	start, ok := parseISO(other.String())
	if !ok {
		return true
	}
	return end.After(start)
}

func validateObjectID(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) == 24
}

func validatePositiveInt(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Field().String())
	return err == nil && n > 0
}
