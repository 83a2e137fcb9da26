package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thynkpro/portal/internal/core/domain"
)

type viewResponse struct {
	View     string           `json:"view"`
	Path     domain.Path      `json:"path"`
	Identity *domain.Identity `json:"identity"`
}

// View renders a protected page. It must sit behind the Guard middleware;
// by the time it runs the caller is authorized.
func View(v domain.View) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, viewResponse{
			View:     v.Name,
			Path:     v.Path,
			Identity: ctxIdentity(c),
		})
	}
}
