package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

const defaultIssuer = "passenger-admin"

// TokenService issues and verifies HS256 session tokens. It is the only token
// scheme in the service; one TTL applies to every token.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now, used for issuing and for expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func WithIssuer(issuer string) TokenOption {
	return func(s *TokenService) { s.issuer = issuer }
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewTokenService fails when secret is empty or ttl is not positive; callers
// treat either as a fatal startup condition.
func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: signing secret is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token service: ttl must be positive, got %s", ttl)
	}

	s := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for p that expires TTL after now.
func (s *TokenService) Issue(p domain.Principal) (string, time.Time, error) {
	if p.ID == "" || !p.Role.Valid() {
		return "", time.Time{}, fmt.Errorf("issue token: invalid principal %q/%q", p.ID, p.Role)
	}

	now := s.now().UTC().Truncate(time.Second)
	exp := now.Add(s.ttl)
	claims := sessionClaims{
		Role: string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify fails closed: any failure returns a zero Principal and one of
// domain.ErrTokenMalformed, domain.ErrTokenSignature or domain.ErrTokenExpired.
//
// The signature is checked before any segment is decoded, so a token altered
// anywhere in its header or payload is reported as a signature failure.
func (s *TokenService) Verify(token string) (domain.Principal, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return domain.Principal{}, domain.ErrTokenMalformed
	}

	sig, err := s.parser.DecodeSegment(parts[2])
	if err != nil {
		return domain.Principal{}, domain.ErrTokenSignature
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, s.secret); err != nil {
		return domain.Principal{}, domain.ErrTokenSignature
	}

	claims := &sessionClaims{}
	_, err = s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Principal{}, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.Principal{}, domain.ErrTokenSignature
		default:
			return domain.Principal{}, domain.ErrTokenMalformed
		}
	}

	role := domain.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return domain.Principal{}, domain.ErrTokenMalformed
	}
	return domain.Principal{ID: claims.Subject, Role: role}, nil
}
