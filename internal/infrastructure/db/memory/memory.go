// Package memory holds in-process implementations of the repositories. They
// enforce the same uniqueness rules as the Mongo store and are used for local
// runs (STORE_DRIVER=memory) and tests.
package memory

import (
	"strings"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func clonePassenger(p *domain.Passenger) *domain.Passenger {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// paginate returns the [skip, end) window of a result set of size n.
func paginate(n, page, limit int) (int, int) {
	if limit <= 0 {
		return 0, n
	}
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * limit
	if skip > n {
		return n, n
	}
	end := skip + limit
	if end > n {
		end = n
	}
	return skip, end
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
