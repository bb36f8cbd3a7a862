package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

const (
	// TokenCookieName is the cookie carrying the session token.
	TokenCookieName = "token"

	principalKey = "principal"
)

// ErrNoSession is returned when the request carries no session cookie.
var ErrNoSession = fmt.Errorf("%w: no session", domain.ErrUnauthenticated)

// TokenVerifier is the part of the token service the resolver needs.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// SessionResolver turns the session cookie into a Principal.
type SessionResolver struct {
	tokens TokenVerifier
}

func NewSessionResolver(tokens TokenVerifier) *SessionResolver {
	return &SessionResolver{tokens: tokens}
}

// Resolve returns the principal for the request. The result of the first
// successful verification is cached on c, so the gate and the handler share
// one verification per request.
func (r *SessionResolver) Resolve(c echo.Context) (domain.Principal, error) {
	if p, ok := c.Get(principalKey).(domain.Principal); ok {
		return p, nil
	}

	cookie, err := c.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return domain.Principal{}, ErrNoSession
	}

	p, err := r.tokens.Verify(cookie.Value)
	if err != nil {
		return domain.Principal{}, err
	}
	c.Set(principalKey, p)
	return p, nil
}

// TokenCookie writes and clears the session cookie.
type TokenCookie struct {
	Secure bool
}

// Set stores token in an HttpOnly cookie that expires with the token.
func (tc TokenCookie) Set(c echo.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetCookie(&http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   tc.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear expires the session cookie on the client.
func (tc TokenCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   tc.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
