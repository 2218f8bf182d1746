package session_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/dohahub/eduhub-edge/authapi"
	"github.com/dohahub/eduhub-edge/credentials"
	"github.com/dohahub/eduhub-edge/credentials/storefakes"
	"github.com/dohahub/eduhub-edge/session"
)

const (
	testEmail    = "jane.doe@example.com"
	testPassword = "Passw0rd"
	testFullName = "Jane Doe"
)

// backendStub is an in-memory stand-in for the remote auth backend. It
// issues opaque tokens and answers the four auth endpoints.
type backendStub struct {
	server *httptest.Server

	lock          sync.Mutex
	requestCount  int
	users         map[string]stubUser // keyed by email
	accessTokens  map[string]string   // access token -> email
	refreshTokens map[string]string   // refresh token -> email
	nextUserID    int
	nextTokenID   int
	malformedMe   bool // when set, /me answers 200 with no id field
}

type stubUser struct {
	id       int
	password string
	fullName string
}

func newBackendStub() *backendStub {
	b := &backendStub{
		users:         map[string]stubUser{},
		accessTokens:  map[string]string{},
		refreshTokens: map[string]string{},
	}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	return b
}

func (b *backendStub) close() {
	b.server.Close()
}

func (b *backendStub) url() string {
	return b.server.URL
}

func (b *backendStub) addUser(email, password, fullName string) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.nextUserID++
	b.users[email] = stubUser{id: b.nextUserID, password: password, fullName: fullName}
}

// mintTokens issues a valid token pair for an existing user, bypassing login.
func (b *backendStub) mintTokens(email string) credentials.Tokens {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.issueLocked(email)
}

func (b *backendStub) issueLocked(email string) credentials.Tokens {
	b.nextTokenID++
	access := fmt.Sprintf("access-%d", b.nextTokenID)
	refresh := fmt.Sprintf("refresh-%d", b.nextTokenID)
	b.accessTokens[access] = email
	b.refreshTokens[refresh] = email
	return credentials.Tokens{Access: access, Refresh: refresh}
}

func (b *backendStub) requests() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.requestCount
}

func (b *backendStub) handle(w http.ResponseWriter, r *http.Request) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.requestCount++

	writeJSON := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	detail := func(status int, msg string) {
		writeJSON(status, map[string]string{"detail": msg})
	}
	userPayload := func(email string) map[string]any {
		u := b.users[email]
		return map[string]any{
			"id": u.id, "email": email, "full_name": u.fullName,
			"is_admin": false, "is_active": true,
		}
	}

	switch r.URL.Path {
	case "/api/auth/login":
		var req struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		u, ok := b.users[req.Email]
		if !ok || u.password != req.Password {
			detail(http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		pair := b.issueLocked(req.Email)
		writeJSON(http.StatusOK, map[string]string{
			"access_token": pair.Access, "refresh_token": pair.Refresh, "token_type": "bearer",
		})

	case "/api/auth/register":
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			FullName string `json:"full_name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, exists := b.users[req.Email]; exists {
			detail(http.StatusBadRequest, "Email already registered")
			return
		}
		b.nextUserID++
		b.users[req.Email] = stubUser{id: b.nextUserID, password: req.Password, fullName: req.FullName}
		writeJSON(http.StatusCreated, userPayload(req.Email))

	case "/api/auth/me":
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		email, ok := b.accessTokens[token]
		if !ok {
			detail(http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		if b.malformedMe {
			writeJSON(http.StatusOK, map[string]string{"email": email})
			return
		}
		writeJSON(http.StatusOK, userPayload(email))

	case "/api/auth/refresh":
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		email, ok := b.refreshTokens[req.RefreshToken]
		if !ok {
			detail(http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		delete(b.refreshTokens, req.RefreshToken)
		pair := b.issueLocked(email)
		writeJSON(http.StatusOK, map[string]string{
			"access_token": pair.Access, "refresh_token": pair.Refresh, "token_type": "bearer",
		})

	default:
		detail(http.StatusNotFound, "Not Found")
	}
}

// testFixture holds all test dependencies
type testFixture struct {
	backend *backendStub
	store   *storefakes.FakeStore
	manager *session.Manager
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	backend := newBackendStub()
	t.Cleanup(backend.close)

	store := storefakes.NewFakeStore()
	manager, err := session.New(authapi.New(backend.url()), store)
	require.NoError(t, err)

	return &testFixture{backend: backend, store: store, manager: manager}
}

func (f *testFixture) storedTokens(t *testing.T) credentials.Tokens {
	t.Helper()
	tokens, err := f.store.Tokens(context.Background())
	require.NoError(t, err)
	return tokens
}

func TestStartupWithoutTokenShortCircuits(t *testing.T) {
	f := setupTestFixture(t)

	require.True(t, f.manager.Loading())
	require.Equal(t, session.StateUnknown, f.manager.State())

	f.manager.Start(context.Background())

	require.False(t, f.manager.Loading())
	require.Nil(t, f.manager.User())
	require.Equal(t, session.StateAnonymous, f.manager.State())
	require.Zero(t, f.backend.requests(), "no network call may happen without a stored token")
}

func TestStartupWithStoredTokenRestoresSession(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.addUser(testEmail, testPassword, testFullName)
	f.store.Seed(f.backend.mintTokens(testEmail))

	f.manager.Start(context.Background())

	user := f.manager.User()
	require.NotNil(t, user)
	require.Equal(t, testEmail, user.Email)
	require.Equal(t, session.StateAuthenticated, f.manager.State())
}

func TestStartupWithRejectedTokenClearsStorage(t *testing.T) {
	f := setupTestFixture(t)
	f.store.Seed(credentials.Tokens{Access: "stale-access", Refresh: "stale-refresh"})

	f.manager.Start(context.Background())

	require.Nil(t, f.manager.User())
	require.False(t, f.manager.Loading())
	require.Equal(t, credentials.Tokens{}, f.storedTokens(t))
}

func TestStartupWithMalformedIdentityClearsStorage(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.addUser(testEmail, testPassword, testFullName)
	f.store.Seed(f.backend.mintTokens(testEmail))
	f.backend.malformedMe = true

	f.manager.Start(context.Background())

	require.Nil(t, f.manager.User())
	require.Equal(t, credentials.Tokens{}, f.storedTokens(t))
	require.Equal(t, session.StateAnonymous, f.manager.State())
}

func TestLoginPopulatesUserAndPersistsTokens(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.addUser(testEmail, testPassword, testFullName)

	require.NoError(t, f.manager.Login(context.Background(), testEmail, testPassword))

	user := f.manager.User()
	require.NotNil(t, user)
	require.Equal(t, testEmail, user.Email)
	require.NotNil(t, user.FullName)
	require.Equal(t, testFullName, *user.FullName)

	tokens := f.storedTokens(t)
	require.NotEmpty(t, tokens.Access)
	require.NotEmpty(t, tokens.Refresh)
}

func TestFailedLoginCarriesBackendMessage(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.addUser(testEmail, testPassword, testFullName)

	err := f.manager.Login(context.Background(), testEmail, "wrong-password")
	require.Error(t, err)

	var apiErr *authapi.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Incorrect email or password", apiErr.Detail)
}

func TestFailedLoginPreservesExistingSession(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.addUser(testEmail, testPassword, testFullName)
	f.backend.addUser("other@example.com", "other-password", "Other User")

	require.NoError(t, f.manager.Login(context.Background(), testEmail, testPassword))
	tokensBefore := f.storedTokens(t)

	err := f.manager.Login(context.Background(), "other@example.com", "wrong-password")
	require.Error(t, err)

	user := f.manager.User()
	require.NotNil(t, user)
	require.Equal(t, testEmail, user.Email, "a failed login must not log out the current user")
	require.Equal(t, tokensBefore, f.storedTokens(t))
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.addUser(testEmail, testPassword, testFullName)
	require.NoError(t, f.manager.Login(context.Background(), testEmail, testPassword))

	f.manager.Logout(context.Background())
	f.manager.Logout(context.Background())

	require.Nil(t, f.manager.User())
	require.Equal(t, credentials.Tokens{}, f.storedTokens(t))
	require.Equal(t, session.StateAnonymous, f.manager.State())
}

func TestRefreshRotatesTokensSilently(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.addUser(testEmail, testPassword, testFullName)
	require.NoError(t, f.manager.Login(context.Background(), testEmail, testPassword))
	tokensBefore := f.storedTokens(t)

	require.NoError(t, f.manager.Refresh(context.Background()))

	tokensAfter := f.storedTokens(t)
	require.NotEqual(t, tokensBefore, tokensAfter)
	require.NotEmpty(t, tokensAfter.Access)

	// No observable state-shape change
	user := f.manager.User()
	require.NotNil(t, user)
	require.Equal(t, testEmail, user.Email)
	require.Equal(t, session.StateAuthenticated, f.manager.State())
}

func TestRefreshFailureForcesLogout(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.addUser(testEmail, testPassword, testFullName)
	require.NoError(t, f.manager.Login(context.Background(), testEmail, testPassword))

	tokens := f.storedTokens(t)
	tokens.Refresh = "revoked-refresh-token"
	f.store.Seed(tokens)

	require.Error(t, f.manager.Refresh(context.Background()))

	require.Nil(t, f.manager.User())
	require.Equal(t, credentials.Tokens{}, f.storedTokens(t))
}

func TestRefreshWithoutRefreshTokenLogsOut(t *testing.T) {
	f := setupTestFixture(t)
	f.store.Seed(credentials.Tokens{Access: "orphan-access"})

	require.NoError(t, f.manager.Refresh(context.Background()))

	require.Equal(t, credentials.Tokens{}, f.storedTokens(t))
	require.Nil(t, f.manager.User())
}

func TestRegisterPerformsAutoLogin(t *testing.T) {
	f := setupTestFixture(t)

	err := f.manager.Register(context.Background(), "newuser@example.com", testPassword, testFullName)
	require.NoError(t, err)

	user := f.manager.User()
	require.NotNil(t, user)
	require.Equal(t, "newuser@example.com", user.Email)

	tokens := f.storedTokens(t)
	require.NotEmpty(t, tokens.Access)
	require.NotEmpty(t, tokens.Refresh)
}

func TestRegisterDuplicateEmailDoesNotTouchSession(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.addUser(testEmail, testPassword, testFullName)
	require.NoError(t, f.manager.Login(context.Background(), testEmail, testPassword))
	tokensBefore := f.storedTokens(t)

	err := f.manager.Register(context.Background(), testEmail, "another-password", "")
	require.Error(t, err)

	var apiErr *authapi.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "Email already registered", apiErr.Detail)

	user := f.manager.User()
	require.NotNil(t, user)
	require.Equal(t, testEmail, user.Email)
	require.Equal(t, tokensBefore, f.storedTokens(t))
}

func TestNewValidatesDependencies(t *testing.T) {
	_, err := session.New(nil, storefakes.NewFakeStore())
	require.Error(t, err)

	_, err = session.New(authapi.New("http://localhost:0"), nil)
	require.Error(t, err)
}
