package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/ports"
	"github.com/thynkpro/portal/internal/core/service"
	"github.com/thynkpro/portal/internal/pkg/metrics"
)

// Guard runs a fresh one-shot check of the route guard for every request
// to a protected view. Authorized requests reach next; the rest are
// redirected to the decision's target.
func Guard(guard ports.RouteGuard, view domain.Path, required domain.RoleSet, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			check := service.NewCheck(guard, required)
			state := check.Evaluate()
			decision := check.Decision()

			metrics.GuardDecisionsTotal.WithLabelValues(string(view), decision.String()).Inc()
			c.Set("guard_state", state.String())

			if state == domain.StateAuthorized {
				return next(c)
			}

			log.Debug().
				Str("path", string(view)).
				Str("decision", decision.String()).
				Msg("guard redirect")
			return c.Redirect(http.StatusFound, string(decision.Target()))
		}
	}
}
