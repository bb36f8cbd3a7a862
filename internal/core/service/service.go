package service

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxNameLength    = 120
)

// Clock returns the current time. Tests replace it to get stable timestamps.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func newID() string {
	return uuid.NewString()
}

// normalizePage clamps page to >= 1 and limit to [1, maxPageLimit].
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 || total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Invalid("name is required")
	}
	if len(name) > maxNameLength {
		return "", domain.Invalid("name must be at most %d characters", maxNameLength)
	}
	return name, nil
}

func validateEmail(email string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return "", domain.Invalid("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.Invalid("email is not a valid address")
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < domain.MinPasswordLength {
		return domain.Invalid("password must be at least %d characters", domain.MinPasswordLength)
	}
	if len(password) > domain.MaxPasswordBytes {
		return domain.Invalid("password must be at most %d bytes", domain.MaxPasswordBytes)
	}
	return nil
}
