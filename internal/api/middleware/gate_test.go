package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/skymanifest/passenger-admin/internal/core/authz"
	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

// stubVerifier accepts the tokens in its map and rejects everything else.
type stubVerifier struct {
	tokens map[string]domain.Principal
	calls  int
}

func (s *stubVerifier) Verify(token string) (domain.Principal, error) {
	s.calls++
	p, ok := s.tokens[token]
	if !ok {
		return domain.Principal{}, domain.ErrTokenSignature
	}
	return p, nil
}

func newTestGate() (*Gate, *stubVerifier) {
	v := &stubVerifier{tokens: map[string]domain.Principal{
		"admin-token":   {ID: "a1", Role: domain.RoleAdmin},
		"manager-token": {ID: "m1", Role: domain.RoleManager},
		"user-token":    {ID: "u1", Role: domain.RoleUser},
	}}
	return NewGate(DefaultRules(), NewSessionResolver(v), TokenCookie{}, authz.NewGuard(), zerolog.Nop()), v
}

// serve runs a GET through the gate and reports whether the handler was reached.
func serve(t *testing.T, g *Gate, target, token string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	h := g.Middleware()(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("gate returned error: %v", err)
	}
	return rec, reached
}

func TestGate_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		token    string
		code     int
		location string
		reached  bool
	}{
		{"anonymous dashboard redirects to login", "/dashboard", "", http.StatusFound, "/login", false},
		{"anonymous api is 401", "/api/passengers", "", http.StatusUnauthorized, "", false},
		{"anonymous root page redirects", "/", "", http.StatusFound, "/login", false},
		{"anonymous login page", "/login", "", http.StatusOK, "", true},
		{"anonymous public api", "/api/auth/login", "", http.StatusOK, "", true},
		{"anonymous health", "/health/ready", "", http.StatusOK, "", true},
		{"user on admin api is 403", "/api/users", "user-token", http.StatusForbidden, "", false},
		{"manager on admin api is 403", "/api/users/42", "manager-token", http.StatusForbidden, "", false},
		{"user on admin page redirects", "/users", "user-token", http.StatusFound, "/dashboard", false},
		{"admin on admin api forwarded", "/api/users", "admin-token", http.StatusOK, "", true},
		{"authenticated login page redirects", "/login", "user-token", http.StatusFound, "/dashboard", false},
		{"authenticated register page redirects", "/register", "manager-token", http.StatusFound, "/dashboard", false},
		{"authenticated api login still reachable", "/api/auth/login", "user-token", http.StatusOK, "", true},
		{"user passengers api", "/api/passengers/1", "user-token", http.StatusOK, "", true},
		{"unlisted page fails closed", "/reports", "", http.StatusFound, "/login", false},
		{"segment bound prefix", "/api/usersx", "user-token", http.StatusOK, "", true},
		{"dot segments are cleaned", "/api/passengers/../users", "user-token", http.StatusForbidden, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGate()
			rec, reached := serve(t, g, tt.path, tt.token)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if reached != tt.reached {
				t.Fatalf("handler reached = %v, want %v", reached, tt.reached)
			}
			if got := rec.Header().Get(echo.HeaderLocation); got != tt.location {
				t.Fatalf("expected location %q, got %q", tt.location, got)
			}
		})
	}
}

func TestGate_InvalidCookieIsCleared(t *testing.T) {
	g, _ := newTestGate()

	rec, reached := serve(t, g, "/dashboard", "forged-token")
	if reached || rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d reached=%v", rec.Code, reached)
	}

	setCookie := rec.Header().Get(echo.HeaderSetCookie)
	if !strings.Contains(setCookie, TokenCookieName+"=;") || !strings.Contains(setCookie, "Max-Age=0") {
		t.Fatalf("expected cleared cookie, got %q", setCookie)
	}
}

func TestGate_InvalidCookieOnGuestPageIsForwarded(t *testing.T) {
	g, _ := newTestGate()

	rec, reached := serve(t, g, "/login", "forged-token")
	if !reached || rec.Code != http.StatusOK {
		t.Fatalf("expected login page, got %d reached=%v", rec.Code, reached)
	}
	if rec.Header().Get(echo.HeaderSetCookie) == "" {
		t.Fatal("expected the invalid cookie to be cleared")
	}
}

func TestGate_PublicPathsSkipVerification(t *testing.T) {
	g, v := newTestGate()

	serve(t, g, "/metrics", "user-token")
	if v.calls != 0 {
		t.Fatalf("public path must not verify tokens, got %d calls", v.calls)
	}
}

func TestGate_AccessFor(t *testing.T) {
	g := NewGate([]Rule{{Prefix: "/api", Access: Authenticated}, {Prefix: "/api/open", Access: Public}}, nil, TokenCookie{}, authz.NewGuard(), zerolog.Nop())

	cases := map[string]Access{
		"/api/open":     Public,
		"/api/open/x":   Public,
		"/api/opener":   Authenticated,
		"/api":          Authenticated,
		"/elsewhere":    Authenticated,
		"/api/open/../": Authenticated,
	}
	for p, want := range cases {
		if got := g.AccessFor(p); got != want {
			t.Errorf("AccessFor(%q) = %s, want %s", p, got, want)
		}
	}
}

func TestSessionResolver_CachesPrincipal(t *testing.T) {
	_, v := newTestGate()
	r := NewSessionResolver(v)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "user-token"})
	c := e.NewContext(req, httptest.NewRecorder())

	for i := 0; i < 3; i++ {
		p, err := r.Resolve(c)
		if err != nil || p.ID != "u1" || p.Role != domain.RoleUser {
			t.Fatalf("unexpected principal %+v, err %v", p, err)
		}
	}
	if v.calls != 1 {
		t.Fatalf("expected a single verification, got %d", v.calls)
	}
}

func TestSessionResolver_MissingCookie(t *testing.T) {
	_, v := newTestGate()
	r := NewSessionResolver(v)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if _, err := r.Resolve(c); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestTokenCookie_SetAndClear(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	TokenCookie{Secure: true}.Set(c, "abc", time.Now().Add(time.Hour))
	set := rec.Result().Cookies()
	if len(set) != 1 {
		t.Fatalf("expected one cookie, got %d", len(set))
	}
	ck := set[0]
	if ck.Name != TokenCookieName || ck.Value != "abc" || !ck.HttpOnly || !ck.Secure ||
		ck.SameSite != http.SameSiteStrictMode || ck.Path != "/" {
		t.Fatalf("unexpected cookie: %+v", ck)
	}
	if ck.MaxAge < 3590 || ck.MaxAge > 3600 {
		t.Fatalf("expected max-age close to an hour, got %d", ck.MaxAge)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	TokenCookie{}.Clear(c)
	cleared := rec.Result().Cookies()[0]
	if cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cleared)
	}
}
