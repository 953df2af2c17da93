package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargolink/cargo-portal/internal/api/metrics"
	"github.com/cargolink/cargo-portal/internal/core/domain"
	"github.com/cargolink/cargo-portal/internal/core/ports"
)

// AccessDeniedNotice is the user-visible message flashed when a session
// reaches a dashboard its role is not allowed to see.
const AccessDeniedNotice = "Access denied. You do not have permission to view this page."

// RequireRole guards a role-specific dashboard. A session with the wrong
// role gets a flash notice and a redirect back to the generic dispatch
// endpoint rather than an HTTP error: the mismatch is a navigation mistake,
// not a protocol violation.
func RequireRole(store ports.SessionStore, required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.Redirect(http.StatusSeeOther, domain.PathLogin)
			}
			if p.Role != required {
				metrics.DashboardDeniedTotal.WithLabelValues(string(p.Role), string(required)).Inc()
				_ = store.PushNotice(c.Request().Context(), p.Username, AccessDeniedNotice)
				return c.Redirect(http.StatusSeeOther, domain.PathDashboard)
			}
			return next(c)
		}
	}
}

// RequireStaff gates the administrative tooling endpoints. Staff status is
// orthogonal to role and lives only in the directory, so the account is
// fetched fresh on every request.
func RequireStaff(repo ports.AccountRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			account, err := repo.FindByUsername(c.Request().Context(), p.Username)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !account.IsStaff || !account.IsActive {
				return echo.NewHTTPError(http.StatusForbidden, "staff access required")
			}
			return next(c)
		}
	}
}
