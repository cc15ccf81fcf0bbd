package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"outlay/internal/api"
	"outlay/internal/session"
	"outlay/internal/storage"
)

func mintToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

// fakeGateway records token mutations and serves canned login/register
// responses.
type fakeGateway struct {
	token       string
	tokenSets   int
	tokenClears int

	loginResult api.LoginResult
	loginErr    error
	registerErr error
}

func (g *fakeGateway) Login(ctx context.Context, username, password string) (api.LoginResult, error) {
	if g.loginErr != nil {
		return api.LoginResult{}, g.loginErr
	}
	return g.loginResult, nil
}

func (g *fakeGateway) Register(ctx context.Context, username, password string) error {
	return g.registerErr
}

func (g *fakeGateway) SetToken(token string) {
	g.token = token
	g.tokenSets++
}

func (g *fakeGateway) ClearToken() {
	g.token = ""
	g.tokenClears++
}

func TestInitializeNoPersistedSession(t *testing.T) {
	m := session.NewManager(storage.NewMemory(), &fakeGateway{}, nil)
	if m.State() != session.StateUnknown {
		t.Fatalf("expected Unknown before initialize, got %v", m.State())
	}
	if !m.Loading() {
		t.Fatal("expected loading before initialize")
	}

	m.Initialize()

	if m.State() != session.StateUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", m.State())
	}
	if m.Loading() {
		t.Fatal("loading must clear after initialize")
	}
}

func TestInitializeRestoresValidSession(t *testing.T) {
	store := storage.NewMemory()
	token := mintToken(t, time.Now().Add(time.Hour))
	if err := store.Save(session.Credentials{Token: token, UserID: "u1", Username: "alice"}); err != nil {
		t.Fatal(err)
	}

	gw := &fakeGateway{}
	m := session.NewManager(store, gw, nil)
	m.Initialize()

	if m.State() != session.StateAuthenticated {
		t.Fatalf("expected Authenticated, got %v", m.State())
	}
	if !m.Authenticated() {
		t.Fatal("expected Authenticated() true")
	}
	if gw.token != token {
		t.Fatal("gateway must carry the restored token")
	}
	id, name := m.User()
	if id != "u1" || name != "alice" {
		t.Fatalf("unexpected identity %s/%s", id, name)
	}
}

func TestInitializeExpiredTokenClearsStorage(t *testing.T) {
	store := storage.NewMemory()
	// exp ten seconds in the past
	token := mintToken(t, time.Now().Add(-10*time.Second))
	if err := store.Save(session.Credentials{Token: token, UserID: "u1", Username: "alice"}); err != nil {
		t.Fatal(err)
	}

	m := session.NewManager(store, &fakeGateway{}, nil)
	m.Initialize()

	if m.State() != session.StateUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", m.State())
	}
	creds, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !creds.Empty() {
		t.Fatal("expired session must be cleared from storage")
	}
	if m.Loading() {
		t.Fatal("loading must clear on the failure path too")
	}
}

func TestInitializeUndecodableTokenClearsStorage(t *testing.T) {
	store := storage.NewMemory()
	if err := store.Save(session.Credentials{Token: "not-a-jwt", UserID: "u1", Username: "alice"}); err != nil {
		t.Fatal(err)
	}

	m := session.NewManager(store, &fakeGateway{}, nil)
	m.Initialize()

	if m.State() != session.StateUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", m.State())
	}
	creds, _ := store.Load()
	if !creds.Empty() {
		t.Fatal("undecodable token must be cleared from storage")
	}
}

func TestLoginSuccess(t *testing.T) {
	store := storage.NewMemory()
	token := mintToken(t, time.Now().Add(time.Hour))
	gw := &fakeGateway{loginResult: api.LoginResult{AccessToken: token, UserID: "u1", Username: "alice"}}

	m := session.NewManager(store, gw, nil)
	m.Initialize()

	if err := m.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("expected login success, got %v", err)
	}
	if m.State() != session.StateAuthenticated {
		t.Fatalf("expected Authenticated, got %v", m.State())
	}
	if gw.token != token {
		t.Fatal("token must be installed on the gateway before Login returns")
	}
	creds, _ := store.Load()
	if creds.Token != token || creds.UserID != "u1" || creds.Username != "alice" {
		t.Fatalf("persisted triple mismatch: %+v", creds)
	}
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	store := storage.NewMemory()
	gw := &fakeGateway{loginErr: &api.Error{Status: 401, Message: "Invalid username or password"}}

	m := session.NewManager(store, gw, nil)
	m.Initialize()

	err := m.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("expected login failure")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid username or password" {
		t.Fatalf("expected server message to surface, got %v", err)
	}
	if m.State() != session.StateUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", m.State())
	}
	if gw.tokenSets != 0 {
		t.Fatal("failed login must not touch the gateway token")
	}
	creds, _ := store.Load()
	if !creds.Empty() {
		t.Fatal("failed login must not persist anything")
	}
}

func TestRegisterNeverMutatesSession(t *testing.T) {
	store := storage.NewMemory()
	gw := &fakeGateway{}
	m := session.NewManager(store, gw, nil)
	m.Initialize()

	if err := m.Register(context.Background(), "bob", "hunter2"); err != nil {
		t.Fatalf("expected register success, got %v", err)
	}
	if m.State() != session.StateUnauthenticated {
		t.Fatal("register must not authenticate")
	}
	creds, _ := store.Load()
	if !creds.Empty() {
		t.Fatal("register must not persist anything")
	}
}

func TestLogoutThenInitialize(t *testing.T) {
	store := storage.NewMemory()
	token := mintToken(t, time.Now().Add(time.Hour))
	gw := &fakeGateway{loginResult: api.LoginResult{AccessToken: token, UserID: "u1", Username: "alice"}}

	m := session.NewManager(store, gw, nil)
	m.Initialize()
	if err := m.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatal(err)
	}

	m.Logout()

	if m.State() != session.StateUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", m.State())
	}
	if gw.token != "" {
		t.Fatal("logout must clear the gateway token")
	}
	creds, _ := store.Load()
	if !creds.Empty() {
		t.Fatal("logout must clear persisted credentials")
	}

	// A fresh manager over the same store stays unauthenticated.
	m2 := session.NewManager(store, &fakeGateway{}, nil)
	m2.Initialize()
	if m2.State() != session.StateUnauthenticated {
		t.Fatalf("expected Unauthenticated after restart, got %v", m2.State())
	}
}

func TestHandleUnauthorizedTearsDownAndNotifies(t *testing.T) {
	store := storage.NewMemory()
	token := mintToken(t, time.Now().Add(time.Hour))
	gw := &fakeGateway{loginResult: api.LoginResult{AccessToken: token, UserID: "u1", Username: "alice"}}

	m := session.NewManager(store, gw, nil)
	m.Initialize()
	if err := m.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatal(err)
	}

	redirected := false
	m.OnExpired(func() { redirected = true })

	m.HandleUnauthorized()

	if !redirected {
		t.Fatal("expiry callback must fire")
	}
	if m.State() != session.StateUnauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", m.State())
	}
	creds, _ := store.Load()
	if !creds.Empty() {
		t.Fatal("401 teardown must clear persisted credentials")
	}
	if gw.token != "" {
		t.Fatal("401 teardown must clear the gateway token")
	}
}

func TestAuthenticatedRechecksExpiry(t *testing.T) {
	store := storage.NewMemory()
	// The exp claim has second precision, so leave enough margin for
	// the token to be valid at the first check and expired at the
	// second.
	token := mintToken(t, time.Now().Add(2*time.Second))
	if err := store.Save(session.Credentials{Token: token, UserID: "u1", Username: "alice"}); err != nil {
		t.Fatal(err)
	}

	m := session.NewManager(store, &fakeGateway{}, nil)
	m.Initialize()
	if !m.Authenticated() {
		t.Fatal("token should still be valid")
	}

	time.Sleep(2500 * time.Millisecond)
	if m.Authenticated() {
		t.Fatal("Authenticated must be false once the token expiry passes")
	}
}
