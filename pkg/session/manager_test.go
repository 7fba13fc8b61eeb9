package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clientStub lets each test script the server's answers directly.
type clientStub struct {
	mutex      sync.Mutex
	validToken string
	email      string
	password   string
	offline    bool
}

func (c *clientStub) Login(_ context.Context, email, password string) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.offline {
		return "", errors.New("connection refused")
	}
	if email != c.email || password != c.password {
		return "", ErrUnauthorized
	}
	return c.validToken, nil
}

func (c *clientStub) Verify(_ context.Context, token string) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.offline {
		return "", errors.New("connection refused")
	}
	if token != c.validToken {
		return "", ErrUnauthorized
	}
	return c.email, nil
}

func (c *clientStub) rotateToken(newToken string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.validToken = newToken
}

func (c *clientStub) setOffline(offline bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.offline = offline
}

func newTestManager(t *testing.T, interval time.Duration) (*Manager, *clientStub, *FileStore, chan State) {
	t.Helper()

	client := &clientStub{
		validToken: "token-1",
		email:      "admin@velora.shop",
		password:   "123412",
	}
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	stateChanges := make(chan State, 16)

	manager := NewManager(ManagerParams{
		Client:         client,
		Store:          store,
		VerifyInterval: interval,
		OnStateChange: func(s State) {
			stateChanges <- s
		},
	})

	return manager, client, store, stateChanges
}

func waitForState(t *testing.T, stateChanges chan State, want State) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case got := <-stateChanges:
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %s", want)
		}
	}
}

func TestManager_loginLogout(t *testing.T) {
	manager, client, store, _ := newTestManager(t, time.Hour)
	manager.Start(t.Context())
	defer manager.Stop()

	assert.Equal(t, StateUnauthenticated, manager.State())

	require.NoError(t, manager.Login(t.Context(), client.email, client.password, true))
	assert.Equal(t, StateAuthenticated, manager.State())
	assert.Equal(t, client.email, manager.Email())
	assert.Equal(t, "token-1", manager.Token())

	// session survived to disk
	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "token-1", stored.Token)
	assert.True(t, stored.RememberMe)

	require.NoError(t, manager.Logout())
	assert.Equal(t, StateUnauthenticated, manager.State())
	assert.Empty(t, manager.Token())

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoStoredSession)
}

func TestManager_login_wrongCredentials(t *testing.T) {
	manager, client, store, _ := newTestManager(t, time.Hour)
	manager.Start(t.Context())
	defer manager.Stop()

	err := manager.Login(t.Context(), client.email, "nope", false)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, StateUnauthenticated, manager.State())

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoStoredSession)
}

func TestManager_resumeStoredSession(t *testing.T) {
	manager, client, store, _ := newTestManager(t, time.Hour)

	require.NoError(t, store.Save(&StoredSession{
		Token:     client.validToken,
		Email:     client.email,
		LastLogin: time.Now(),
	}))

	manager.Start(t.Context())
	defer manager.Stop()

	assert.Equal(t, StateAuthenticated, manager.State())
	assert.Equal(t, client.email, manager.Email())
}

func TestManager_resumeRejectedToken(t *testing.T) {
	manager, _, store, _ := newTestManager(t, time.Hour)

	require.NoError(t, store.Save(&StoredSession{
		Token:     "stale-token",
		LastLogin: time.Now().Add(-31 * 24 * time.Hour),
	}))

	manager.Start(t.Context())
	defer manager.Stop()

	assert.Equal(t, StateUnauthenticated, manager.State())

	// rejected token got wiped from disk too
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoStoredSession)
}

func TestManager_periodicVerify_dropsRotatedSession(t *testing.T) {
	manager, client, store, stateChanges := newTestManager(t, 20*time.Millisecond)
	manager.Start(t.Context())
	defer manager.Stop()

	require.NoError(t, manager.Login(t.Context(), client.email, client.password, false))
	waitForState(t, stateChanges, StateAuthenticated)

	// the server stops accepting this token (e.g. secret rotated)
	client.rotateToken("token-2")

	waitForState(t, stateChanges, StateUnauthenticated)
	assert.Empty(t, manager.Token())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoStoredSession)
}

func TestManager_transportErrorRetainsSession(t *testing.T) {
	manager, client, store, _ := newTestManager(t, time.Hour)

	var verifyErrs []error
	manager.onVerifyError = func(err error) {
		verifyErrs = append(verifyErrs, err)
	}

	manager.Start(t.Context())
	defer manager.Stop()

	require.NoError(t, manager.Login(t.Context(), client.email, client.password, true))

	// server goes away, the session stays put
	client.setOffline(true)
	manager.VerifyNow(t.Context())
	require.Len(t, verifyErrs, 1)

	assert.Equal(t, StateAuthenticated, manager.State())
	assert.Equal(t, "token-1", manager.Token())
	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "token-1", stored.Token)

	// server back up, still authenticated
	client.setOffline(false)
	manager.VerifyNow(t.Context())
	assert.Equal(t, StateAuthenticated, manager.State())
}
