package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs shared by the service tests
// ---------------------------------------------------------------------------

// stubHasher is a fast reversible "hash" so tests do not pay bcrypt cost.
type stubHasher struct {
	mu       sync.Mutex
	verifies int
	hashErr  error
}

func (h *stubHasher) Hash(plain string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + plain, nil
}

func (h *stubHasher) Verify(hash, plain string) bool {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return strings.TrimPrefix(hash, "hashed:") == plain && strings.HasPrefix(hash, "hashed:")
}

type stubTokens struct {
	issued []domain.Principal
}

func (s *stubTokens) Issue(p domain.Principal) (string, time.Time, error) {
	s.issued = append(s.issued, p)
	return "token-for-" + p.ID, time.Date(2026, 10, 18, 13, 0, 0, 0, time.UTC), nil
}

func (s *stubTokens) Verify(string) (domain.Principal, error) {
	return domain.Principal{}, errors.New("not implemented")
}

func (s *stubTokens) TTL() time.Duration { return time.Hour }

type stubLimiter struct {
	blocked  bool
	err      error
	failures map[string]int
	resets   int
}

func newStubLimiter() *stubLimiter {
	return &stubLimiter{failures: make(map[string]int)}
}

func (l *stubLimiter) Blocked(context.Context, string) (bool, error) { return l.blocked, l.err }

func (l *stubLimiter) RecordFailure(_ context.Context, key string) error {
	l.failures[key]++
	return l.err
}

func (l *stubLimiter) Reset(_ context.Context, key string) error {
	l.resets++
	delete(l.failures, key)
	return l.err
}

type stubAudit struct {
	events []domain.AuditEvent
}

func (a *stubAudit) Record(e domain.AuditEvent) { a.events = append(a.events, e) }

func (a *stubAudit) actions() []domain.Action {
	out := make([]domain.Action, len(a.events))
	for i, e := range a.events {
		out[i] = e.Action
	}
	return out
}

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

var (
	adminP   = domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}
	managerP = domain.Principal{ID: "manager-1", Role: domain.RoleManager}
	aliceP   = domain.Principal{ID: "alice", Role: domain.RoleUser}
	bobP     = domain.Principal{ID: "bob", Role: domain.RoleUser}
)

func mustErrIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}
