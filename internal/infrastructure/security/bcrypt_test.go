package security

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

func TestNewBcryptHasher_DefaultCostWhenNonPositive(t *testing.T) {
	h := NewBcryptHasher(0)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected cost=%d, got %d", bcrypt.DefaultCost, h.cost)
	}
}

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, pw := range []string{"longenough1", "P@ssw0rd123!", "ünïcödé-pässwörd"} {
		hash, err := h.Hash(pw)
		if err != nil {
			t.Fatalf("hash %q: %v", pw, err)
		}
		if hash == pw {
			t.Fatalf("hash should not equal plaintext")
		}
		if !h.Verify(hash, pw) {
			t.Fatalf("verify(hash(%q), %q) = false", pw, pw)
		}
		if h.Verify(hash, pw+"x") {
			t.Fatalf("verify accepted a different password for %q", pw)
		}
	}
}

func TestBcryptHasher_SaltedPerCall(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, _ := h.Hash("same-password")
	b, _ := h.Hash("same-password")
	if a == b {
		t.Fatalf("expected distinct hashes for repeated calls")
	}
}

func TestBcryptHasher_Verify_MalformedHashIsFalse(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if h.Verify("not-a-bcrypt-hash", "whatever") {
		t.Fatalf("expected false for malformed hash")
	}
	if h.Verify("", "") {
		t.Fatalf("expected false for empty hash")
	}
}

func TestBcryptHasher_Hash_InvalidCostFails(t *testing.T) {
	h := NewBcryptHasher(100)
	if _, err := h.Hash("pw"); err == nil {
		t.Fatalf("expected error for out of range cost")
	}
}

func TestBcryptHasher_RejectsOverlongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	// 40 two-byte runes: short in characters, over the limit in bytes.
	_, err := h.Hash(strings.Repeat("é", 40))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
