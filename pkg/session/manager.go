package session

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultVerifyInterval is how often an authenticated session gets
// re-checked against the server.
const DefaultVerifyInterval = 5 * time.Minute

type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

type apiClient interface {
	Login(ctx context.Context, email, password string) (string, error)
	Verify(ctx context.Context, token string) (string, error)
}

// Manager drives the admin session through its three states and keeps
// the durable store in sync. Only an explicit server-side rejection
// drops a session; network trouble leaves it untouched, the next
// periodic check will settle it.
type Manager struct {
	client         apiClient
	store          *FileStore
	verifyInterval time.Duration
	onStateChange  func(State)
	onVerifyError  func(error)

	mutex sync.Mutex
	state State
	token string
	email string

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

type ManagerParams struct {
	Client         apiClient
	Store          *FileStore
	VerifyInterval time.Duration
	// OnStateChange fires on every transition, the frontend hangs its
	// login redirect off this.
	OnStateChange func(State)
	// OnVerifyError fires on transport-level verification failures,
	// which never change the auth state.
	OnVerifyError func(error)
}

func NewManager(params ManagerParams) *Manager {
	interval := params.VerifyInterval
	if interval <= 0 {
		interval = DefaultVerifyInterval
	}
	return &Manager{
		client:         params.Client,
		store:          params.Store,
		verifyInterval: interval,
		onStateChange:  params.OnStateChange,
		onVerifyError:  params.OnVerifyError,
		state:          StateUnauthenticated,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start tries to resume the stored session, then launches the periodic
// re-verification loop. Call Stop when done.
func (m *Manager) Start(ctx context.Context) {
	stored, err := m.store.Load()
	switch {
	case errors.Is(err, ErrNoStoredSession):
		log.Trace("session: nothing stored, starting unauthenticated")
	case err != nil:
		log.Warnf("session: load stored session: %s", err)
	default:
		m.resume(ctx, stored)
	}

	go m.verifyLoop(ctx)
}

func (m *Manager) resume(ctx context.Context, stored *StoredSession) {
	m.setSession(StateAuthenticating, stored.Token, stored.Email)

	email, err := m.client.Verify(ctx, stored.Token)
	switch {
	case errors.Is(err, ErrUnauthorized):
		log.Debug("session: stored token rejected, clearing")
		m.dropSession()
	case err != nil:
		// server unreachable, keep the session and let the
		// periodic check settle it
		log.Warnf("session: resume verify failed: %s", err)
		m.reportVerifyError(err)
		m.setSession(StateAuthenticated, stored.Token, stored.Email)
	default:
		log.Debugf("session: resumed for %s", email)
		m.setSession(StateAuthenticated, stored.Token, email)
	}
}

// Login exchanges credentials for a token and persists the session.
func (m *Manager) Login(ctx context.Context, email, password string, rememberMe bool) error {
	m.setSession(StateAuthenticating, "", "")

	token, err := m.client.Login(ctx, email, password)
	if err != nil {
		m.setSession(StateUnauthenticated, "", "")
		return err
	}

	if err := m.store.Save(&StoredSession{
		Token:      token,
		Email:      email,
		LastLogin:  time.Now(),
		RememberMe: rememberMe,
	}); err != nil {
		log.Warnf("session: persist failed: %s", err)
	}

	m.setSession(StateAuthenticated, token, email)
	return nil
}

// Logout drops the session locally. The token itself stays valid until
// expiry, there is nothing server-side to revoke.
func (m *Manager) Logout() error {
	m.dropSession()
	return nil
}

// VerifyNow runs one verification round outside the periodic schedule.
func (m *Manager) VerifyNow(ctx context.Context) {
	m.mutex.Lock()
	token := m.token
	m.mutex.Unlock()

	if token == "" {
		return
	}

	email, err := m.client.Verify(ctx, token)
	switch {
	case errors.Is(err, ErrUnauthorized):
		log.Debug("session: token no longer valid, dropping session")
		m.dropSession()
	case err != nil:
		log.Warnf("session: periodic verify failed: %s", err)
		m.reportVerifyError(err)
	default:
		m.setSession(StateAuthenticated, token, email)
	}
}

func (m *Manager) State() State {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.state
}

func (m *Manager) Email() string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.email
}

func (m *Manager) Token() string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.token
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
	<-m.doneCh
}

func (m *Manager) verifyLoop(ctx context.Context) {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.verifyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.VerifyNow(ctx)
		}
	}
}

func (m *Manager) reportVerifyError(err error) {
	if m.onVerifyError != nil {
		m.onVerifyError(err)
	}
}

func (m *Manager) dropSession() {
	if err := m.store.Clear(); err != nil {
		log.Warnf("session: clear stored session: %s", err)
	}
	m.setSession(StateUnauthenticated, "", "")
}

func (m *Manager) setSession(state State, token, email string) {
	m.mutex.Lock()
	changed := m.state != state
	m.state = state
	m.token = token
	m.email = email
	callback := m.onStateChange
	m.mutex.Unlock()

	// callback runs unlocked so it can call back into the manager
	if changed && callback != nil {
		callback(state)
	}
}
