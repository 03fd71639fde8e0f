package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/appointment-scheduler/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth. Roles are
// normalised the same way the services read them.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := c.Get("role").(string)
			if raw == "" {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access forbidden"})
			}
			if _, ok := allowed[domain.ParseRole(raw)]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access forbidden"})
			}
			return next(c)
		}
	}
}
