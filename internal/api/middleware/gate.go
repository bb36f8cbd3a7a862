package middleware

import (
	"errors"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/skymanifest/passenger-admin/internal/api/metrics"
	"github.com/skymanifest/passenger-admin/internal/core/authz"
	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

// Access is the level a route requires.
type Access int

const (
	// Authenticated is the zero value so that a forgotten level fails closed.
	Authenticated Access = iota
	Public
	Guest
	Admin
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Guest:
		return "guest"
	case Admin:
		return "admin"
	default:
		return "authenticated"
	}
}

// Rule binds a path prefix to an access level. Prefixes match whole path
// segments: "/api/users" matches "/api/users/42" but not "/api/usersx".
type Rule struct {
	Prefix string
	Access Access
}

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
	apiPrefix     = "/api"
)

// DefaultRules is the route table of the application.
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/api/auth/login", Access: Public},
		{Prefix: "/api/auth/register", Access: Public},
		{Prefix: "/api/auth/logout", Access: Public},
		{Prefix: "/health", Access: Public},
		{Prefix: "/metrics", Access: Public},
		{Prefix: "/swagger", Access: Public},
		{Prefix: "/login", Access: Guest},
		{Prefix: "/register", Access: Guest},
		{Prefix: "/api/users", Access: Admin},
		{Prefix: "/users", Access: Admin},
		{Prefix: "/api", Access: Authenticated},
		{Prefix: "/dashboard", Access: Authenticated},
		{Prefix: "/passengers", Access: Authenticated},
		{Prefix: "/", Access: Authenticated},
	}
}

// Gate is the request-level access check that runs before any handler.
type Gate struct {
	rules    []Rule
	resolver *SessionResolver
	cookie   TokenCookie
	guard    *authz.Guard
	log      zerolog.Logger
}

func NewGate(rules []Rule, resolver *SessionResolver, cookie TokenCookie, guard *authz.Guard, log zerolog.Logger) *Gate {
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &Gate{rules: sorted, resolver: resolver, cookie: cookie, guard: guard, log: log}
}

// AccessFor returns the level required for p. Paths no rule matches are
// treated as Authenticated.
func (g *Gate) AccessFor(p string) Access {
	p = path.Clean("/" + p)
	for _, r := range g.rules {
		if matchPrefix(r.Prefix, p) {
			return r.Access
		}
	}
	return Authenticated
}

func matchPrefix(prefix, p string) bool {
	if prefix == "/" {
		return true
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

func isAPI(p string) bool {
	return matchPrefix(apiPrefix, path.Clean("/"+p))
}

// Middleware enforces the rule table.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqPath := c.Request().URL.Path
			access := g.AccessFor(reqPath)
			if access == Public {
				return g.forward(c, next)
			}

			p, err := g.resolver.Resolve(c)
			if err != nil && !errors.Is(err, ErrNoSession) {
				g.log.Debug().Err(err).Str("path", reqPath).Msg("discarding invalid session cookie")
				g.cookie.Clear(c)
			}
			authenticated := err == nil

			switch access {
			case Guest:
				if authenticated {
					return g.redirect(c, DashboardPath, "redirect_dashboard")
				}
				return g.forward(c, next)

			case Admin:
				if !authenticated {
					return g.reject(c, reqPath)
				}
				if !g.guard.CanAccess(p, domain.ResourceUser, "", domain.ActionRead) {
					if isAPI(reqPath) {
						metrics.GateDecisionsTotal.WithLabelValues("forbidden").Inc()
						return c.JSON(http.StatusForbidden, errorBody{Error: domain.ErrForbidden.Error()})
					}
					return g.redirect(c, DashboardPath, "redirect_dashboard")
				}
				return g.forward(c, next)

			default:
				if !authenticated {
					return g.reject(c, reqPath)
				}
				return g.forward(c, next)
			}
		}
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func (g *Gate) forward(c echo.Context, next echo.HandlerFunc) error {
	metrics.GateDecisionsTotal.WithLabelValues("forward").Inc()
	return next(c)
}

func (g *Gate) reject(c echo.Context, reqPath string) error {
	if isAPI(reqPath) {
		metrics.GateDecisionsTotal.WithLabelValues("unauthorized").Inc()
		return c.JSON(http.StatusUnauthorized, errorBody{Error: domain.ErrUnauthenticated.Error()})
	}
	return g.redirect(c, LoginPath, "redirect_login")
}

func (g *Gate) redirect(c echo.Context, to, outcome string) error {
	metrics.GateDecisionsTotal.WithLabelValues(outcome).Inc()
	return c.Redirect(http.StatusFound, to)
}
