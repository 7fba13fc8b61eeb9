package auth

import "context"

var _ Verifier = (*TokenService)(nil)

// Verifier validates a session token and returns its subject.
type Verifier interface {
	Verify(ctx context.Context, token string) (subject string, err error)
}
