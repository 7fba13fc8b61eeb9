package auth

import "context"

var _ Verifier = (*TestVerifier)(nil)

// TestVerifier is a Verifier for unit tests in handler packages,
// mapping accepted tokens to their subject.
type TestVerifier struct {
	ValidTokens map[string]string
}

func NewTestVerifier() *TestVerifier {
	return &TestVerifier{
		ValidTokens: map[string]string{},
	}
}

func (tv *TestVerifier) Verify(_ context.Context, token string) (string, error) {
	subject, ok := tv.ValidTokens[token]
	if !ok {
		return "", ErrInvalidToken
	}
	return subject, nil
}
