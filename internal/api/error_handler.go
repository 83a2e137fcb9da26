package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/thynkpro/portal/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// knownErrors maps domain sentinels to a status and a client-safe message.
// An empty message means err.Error() is safe to show.
var knownErrors = []struct {
	target error
	status int
	msg    string
}{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password. Please try again."},
	{domain.ErrInvalidRole, http.StatusBadRequest, ""},
	{domain.ErrInvalidIdentity, http.StatusBadRequest, ""},
	{domain.ErrPrincipalNotFound, http.StatusNotFound, "principal not found"},
	{domain.ErrPrincipalExists, http.StatusConflict, "principal already exists"},
}

// NewHTTPErrorHandler renders every error as {"error": "..."}. Domain
// sentinels get their mapped status; anything else is logged and hidden
// behind a 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := classify(err)
		if status == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
		}
		_ = c.JSON(status, errorResponse{Error: msg})
	}
}

func classify(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}
	for _, k := range knownErrors {
		if errors.Is(err, k.target) {
			if k.msg == "" {
				return k.status, err.Error()
			}
			return k.status, k.msg
		}
	}
	return http.StatusInternalServerError, "internal server error"
}
