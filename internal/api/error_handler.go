package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// errorMapping binds a domain sentinel to its status. An empty msg means the
// wrapped error text is safe to return as is.
type errorMapping struct {
	target error
	status int
	msg    string
}

// Order matters: the first matching sentinel wins. Every authentication
// failure collapses into one message so callers cannot tell why a token
// or login was rejected.
var errorMappings = []errorMapping{
	{domain.ErrValidation, http.StatusBadRequest, ""},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, domain.ErrUnauthenticated.Error()},
	{domain.ErrForbidden, http.StatusForbidden, domain.ErrForbidden.Error()},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrPassengerNotFound, http.StatusNotFound, "passenger not found"},
	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
	{domain.ErrPassengerExists, http.StatusConflict, domain.ErrPassengerExists.Error()},
	{domain.ErrTooManyAttempts, http.StatusTooManyRequests, domain.ErrTooManyAttempts.Error()},
}

// NewHTTPErrorHandler renders every error as {"error": "<message>"}. Unknown
// errors are logged and answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.msg == "" {
				return m.status, err.Error()
			}
			return m.status, m.msg
		}
	}
	return http.StatusInternalServerError, "internal server error"
}
