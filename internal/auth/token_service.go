package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the fixed session token lifetime (30 days).
const DefaultTTL = 30 * 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// TokenService issues and verifies the admin session tokens. Tokens are
// self-contained (HS256 signed, single subject claim, fixed expiry), so
// the server keeps no session state: a token is valid iff its signature
// verifies, it is not expired, and its subject equals the currently
// configured admin email. Rotating the admin email or the signing
// secret is the only way to revoke outstanding sessions.
type TokenService struct {
	admin  Admin
	secret []byte
	ttl    time.Duration
	// ability to inject the clock (for unit testing expiry)
	NowFunc func() time.Time
}

func NewTokenService(admin Admin, secret []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenService{
		admin:   admin,
		secret:  secret,
		ttl:     ttl,
		NowFunc: time.Now,
	}
}

// Login checks the credentials against the configured admin pair and,
// on match, returns a signed session token. Nothing is persisted.
func (ts *TokenService) Login(_ context.Context, email, password string) (string, error) {
	if !ts.admin.CredentialsMatch(email, password) {
		return "", ErrInvalidCredentials
	}

	now := ts.NowFunc()
	claims := jwt.RegisteredClaims{
		Subject:   ts.admin.Email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return token, nil
}

// Verify checks the token signature and expiry, and that the embedded
// subject equals the currently configured admin email. It returns the
// subject on success and ErrInvalidToken on any mismatch, without
// distinguishing expired from tampered from rotated-away subjects.
func (ts *TokenService) Verify(_ context.Context, tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(_ *jwt.Token) (interface{}, error) {
			return ts.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return ts.NowFunc() }),
	)
	if err != nil {
		return "", ErrInvalidToken
	}

	// tokens issued before an admin email rotation fail here,
	// which implicitly revokes them without a revocation list
	if claims.Subject != ts.admin.Email {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
