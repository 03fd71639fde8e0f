package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

// callerFrom extracts the identity injected by the Auth middleware. A missing
// user id means the route was mounted without Auth; reject with 401 before any
// service call.
func callerFrom(c echo.Context) (domain.Caller, error) {
	caller := optionalCaller(c)
	if caller.UserID == "" {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return caller, nil
}

// optionalCaller returns the zero Caller for anonymous requests.
func optionalCaller(c echo.Context) domain.Caller {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" {
		return domain.Caller{}
	}
	return domain.Caller{UserID: userID, Role: domain.ParseRole(role)}
}

// bindPath binds and validates route parameters without touching the body.
func bindPath(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindPathParams(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid path parameters")
	}
	return c.Validate(dst)
}

// bindQuery binds and validates query parameters.
func bindQuery(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	return c.Validate(dst)
}

// bindBody binds and validates the JSON body.
func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(dst)
}

// resultLabel turns a service outcome into a metrics label.
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return domain.KindOf(err).String()
}
