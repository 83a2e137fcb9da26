package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/thynkpro/portal/internal/api/handler"
	"github.com/thynkpro/portal/internal/core/domain"
)

type identitySource interface {
	CurrentIdentity() *domain.Identity
}

// Session injects the current identity (if any) into the context under
// handler.ContextKeyIdentity. It never rejects a request.
func Session(session identitySource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ident := session.CurrentIdentity(); ident != nil {
				c.Set(handler.ContextKeyIdentity, ident)
				c.Set("role", string(ident.Role))
			}
			return next(c)
		}
	}
}
