package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/thynkpro/portal/internal/core/domain"
)

// ContextKeyIdentity is where the Session middleware stores the current
// identity for the rest of the request.
const ContextKeyIdentity = "identity"

// ctxIdentity returns the identity injected by the Session middleware, or
// nil when the request is anonymous.
func ctxIdentity(c echo.Context) *domain.Identity {
	ident, _ := c.Get(ContextKeyIdentity).(*domain.Identity)
	return ident
}
