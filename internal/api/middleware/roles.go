package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
)

// Roles restricts a route to the given roles. The authority claim must have
// been injected by Auth.
func Roles(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := roleFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "rôle non autorisé")
			}
			return next(c)
		}
	}
}

// Validators restricts a route to the roles allowed to decide dossier
// validations: the super admin and the four chefs.
func Validators() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := roleFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if !role.CanValidate() {
				return echo.NewHTTPError(http.StatusForbidden, "rôle non autorisé à valider")
			}
			return next(c)
		}
	}
}

// Chefs restricts a route to the super admin and the département heads.
func Chefs() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := roleFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if role != domain.RoleSuperAdmin && !role.IsChef() {
				return echo.NewHTTPError(http.StatusForbidden, "rôle non autorisé")
			}
			return next(c)
		}
	}
}

func roleFromContext(c echo.Context) (domain.Role, bool) {
	authority, _ := c.Get("authority").(string)
	return domain.RoleFromAuthority(authority)
}
