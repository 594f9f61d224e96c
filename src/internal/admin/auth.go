// FILE: tplog/src/internal/admin/auth.go
package admin

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is set on tokens minted by IssueToken and required on validation
const Issuer = "tplog"

// TokenValidator checks HS256 bearer tokens signed with the admin secret
type TokenValidator struct {
	parser *jwt.Parser
	key    []byte
}

// NewTokenValidator creates a validator for secret
func NewTokenValidator(secret string) (*TokenValidator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &TokenValidator{
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256"}),
			jwt.WithLeeway(5*time.Second),
			jwt.WithExpirationRequired(),
			jwt.WithIssuer(Issuer),
		),
		key: []byte(secret),
	}, nil
}

// Validate accepts an "Authorization" header value of the form "Bearer <token>"
func (v *TokenValidator) Validate(authHeader string) error {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return errors.New("invalid bearer auth header")
	}

	token, err := v.parser.ParseWithClaims(authHeader[7:], &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return fmt.Errorf("JWT validation failed: %w", err)
	}
	if !token.Valid {
		return errors.New("invalid JWT token")
	}
	return nil
}

// IssueToken mints an admin token for subject valid for ttl
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
