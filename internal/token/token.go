// Package token issues and validates operator access tokens. Administrative
// endpoints (manual override, audit trail) require an operator token.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "vigil/pkg/domain-errors"
)

const issuer = "vigil"

// OperatorClaims represents the JWT claims for operator tokens.
type OperatorClaims struct {
	OperatorID string   `json:"operator_id"`
	Roles      []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the token carries the given role.
func (c *OperatorClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Operator roles.
const (
	RoleAdmin    = "admin"
	RoleReviewer = "reviewer"
)

// Service handles operator token creation and validation.
type Service struct {
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithClock injects a clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a token service. tokenTTL bounds the lifetime of every
// issued token.
func NewService(signingKey string, tokenTTL time.Duration, opts ...Option) (*Service, error) {
	if signingKey == "" {
		return nil, dErrors.New(dErrors.CodeConfigMissing, "token signing key is not configured")
	}
	s := &Service{
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates a signed operator token.
func (s *Service) Issue(operatorID string, roles []string) (string, error) {
	if operatorID == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "operator id is required")
	}
	now := s.now()

	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, OperatorClaims{
		OperatorID: operatorID,
		Roles:      roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operatorID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        uuid.NewString(),
		},
	})

	return newToken.SignedString(s.signingKey)
}

// Validate parses and verifies an operator token.
func (s *Service) Validate(tokenString string) (*OperatorClaims, error) {
	if tokenString == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing token")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*OperatorClaims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Issuer != issuer {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token issuer")
	}

	return claims, nil
}
