package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

// PrincipalResolver returns the authenticated principal of a request. Every
// protected handler calls it before touching a service, even behind the gate.
type PrincipalResolver interface {
	Resolve(c echo.Context) (domain.Principal, error)
}

// SessionCookie writes and clears the session cookie.
type SessionCookie interface {
	Set(c echo.Context, token string, expiresAt time.Time)
	Clear(c echo.Context)
}

// principal resolves the caller, mapping every failure to ErrUnauthenticated
// so handlers never leak why a token was rejected.
func principal(r PrincipalResolver, c echo.Context) (domain.Principal, error) {
	p, err := r.Resolve(c)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}
