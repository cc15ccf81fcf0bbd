// Package session owns the authentication lifecycle: restoring a
// persisted token at startup, login/register/logout, and the forced
// teardown that follows a 401 from the backend.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"outlay/internal/api"
	"outlay/internal/log"
)

// State is where the session currently stands. It starts Unknown and
// settles after Initialize.
type State int

const (
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Gateway is the slice of the API client the session layer drives: the
// two unauthenticated endpoints plus control over the default bearer
// token.
type Gateway interface {
	Login(ctx context.Context, username, password string) (api.LoginResult, error)
	Register(ctx context.Context, username, password string) error
	SetToken(token string)
	ClearToken()
}

// Manager holds the in-memory session and routes every mutation of the
// persisted triple through login, logout, and expiry teardown.
type Manager struct {
	store  Store
	gw     Gateway
	logger *log.Logger
	now    func() time.Time

	mu        sync.Mutex
	state     State
	creds     Credentials
	loading   bool
	onExpired func()
}

func NewManager(store Store, gw Gateway, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentSession)
	}
	return &Manager{
		store:   store,
		gw:      gw,
		logger:  logger,
		now:     time.Now,
		state:   StateUnknown,
		loading: true,
	}
}

// OnExpired registers the callback invoked after a forced teardown
// (local expiry at startup is silent; this fires for 401-driven
// teardowns so the UI can return to its unauthenticated entry point).
func (m *Manager) OnExpired(fn func()) {
	m.mu.Lock()
	m.onExpired = fn
	m.mu.Unlock()
}

// Initialize restores a persisted session. An expired or undecodable
// token clears storage and leaves the session unauthenticated. Loading
// is cleared on every path out.
func (m *Manager) Initialize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	creds, err := m.store.Load()
	if err != nil {
		m.logger.Error("Failed to load persisted session", log.FieldError, err)
		m.clearLocked()
		return
	}
	if creds.Token == "" {
		m.state = StateUnauthenticated
		return
	}

	exp, err := tokenExpiry(creds.Token)
	if err != nil {
		m.logger.Warn("Persisted token is not decodable, clearing session", log.FieldError, err)
		m.clearLocked()
		return
	}
	if !exp.After(m.now()) {
		m.logger.Info("Persisted token expired, clearing session")
		m.clearLocked()
		return
	}

	m.creds = creds
	m.gw.SetToken(creds.Token)
	m.state = StateAuthenticated
	m.logger.Info("Session restored",
		log.FieldUsername, creds.Username,
		log.FieldUserID, creds.UserID)
}

// Login authenticates against the backend. On success the triple is
// persisted and the gateway token installed before Login returns; on
// failure nothing changes and the returned error carries the server's
// message.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	res, err := m.gw.Login(ctx, username, password)
	if err != nil {
		m.logger.WarnContext(ctx, "Login rejected",
			log.FieldUsername, username,
			log.FieldError, err)
		return err
	}

	creds := Credentials{Token: res.AccessToken, UserID: res.UserID, Username: res.Username}
	if err := m.store.Save(creds); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.creds = creds
	m.state = StateAuthenticated
	m.mu.Unlock()
	m.gw.SetToken(creds.Token)

	m.logger.InfoContext(ctx, "Login successful",
		log.FieldUsername, creds.Username,
		log.FieldUserID, creds.UserID)
	return nil
}

// Register creates an account. Registration never mutates session
// state; the user logs in afterwards.
func (m *Manager) Register(ctx context.Context, username, password string) error {
	if err := m.gw.Register(ctx, username, password); err != nil {
		m.logger.WarnContext(ctx, "Registration rejected",
			log.FieldUsername, username,
			log.FieldError, err)
		return err
	}
	m.logger.InfoContext(ctx, "Registration successful", log.FieldUsername, username)
	return nil
}

// Logout clears the persisted triple and the in-memory session. It
// needs no network call and always succeeds.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.clearLocked()
	m.mu.Unlock()
	m.logger.Info("Logged out")
}

// HandleUnauthorized is wired to the gateway's 401 hook: full teardown,
// then the expiry callback.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	m.clearLocked()
	fn := m.onExpired
	m.mu.Unlock()

	m.logger.Warn("Session expired remotely, cleared")
	if fn != nil {
		fn()
	}
}

// clearLocked wipes the triple everywhere: store, memory, gateway.
// Callers hold m.mu.
func (m *Manager) clearLocked() {
	if err := m.store.Clear(); err != nil {
		m.logger.Error("Failed to clear persisted session", log.FieldError, err)
	}
	m.creds = Credentials{}
	m.gw.ClearToken()
	m.state = StateUnauthenticated
}

// Authenticated reports whether a live session is held. The invariant
// is checked against the clock, not just the stored flag: a token that
// expired since the last check no longer counts.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated || m.creds.Token == "" {
		return false
	}
	exp, err := tokenExpiry(m.creds.Token)
	return err == nil && exp.After(m.now())
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Loading reports whether Initialize has not yet completed.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// User returns the current identity, empty when unauthenticated.
func (m *Manager) User() (id, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds.UserID, m.creds.Username
}
