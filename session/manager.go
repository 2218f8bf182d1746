// Package session owns the authenticated-user lifecycle: it persists the
// bearer/refresh pair through an injected credentials.Store, reloads the
// current identity from the backend, and exposes login, register, logout
// and refresh operations plus read-only state signals.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dohahub/eduhub-edge/authapi"
	"github.com/dohahub/eduhub-edge/credentials"
)

// State is the session as consumers observe it.
type State int

const (
	// StateUnknown holds from construction until the initial identity
	// reload completes.
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "invalid"
	}
}

// AuthAPI is the backend contract the manager needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*authapi.TokenPair, error)
	Register(ctx context.Context, email, password, fullName string) (*authapi.User, error)
	Me(ctx context.Context, accessToken string) (*authapi.User, error)
	Refresh(ctx context.Context, refreshToken string) (*authapi.TokenPair, error)
}

var _ AuthAPI = (*authapi.Client)(nil)

// Manager is the single authoritative representation of "who is logged in".
// The credential store remains the source of truth across restarts; the
// in-memory user is reconstructed from it, never the reverse.
type Manager struct {
	api     AuthAPI
	creds   credentials.Store
	log     zerolog.Logger
	nowTime func() time.Time

	lock    sync.RWMutex
	user    *authapi.User
	loading bool
}

type Option func(*Manager)

func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

func New(api AuthAPI, creds credentials.Store, options ...Option) (*Manager, error) {
	if api == nil {
		return nil, errors.New("[session.New] auth API client is required")
	}
	if creds == nil {
		return nil, errors.New("[session.New] credential store is required")
	}

	m := &Manager{
		api:     api,
		creds:   creds,
		log:     zerolog.Nop(),
		nowTime: time.Now,
		loading: true,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Start performs the initial identity reload. When no access token is
// stored, it settles to anonymous immediately without a network call.
func (m *Manager) Start(ctx context.Context) {
	tokens, err := m.creds.Tokens(ctx)
	if err != nil || !tokens.Present() {
		if err != nil {
			m.log.Warn().Err(err).Msg("credential store unreadable at startup")
		}
		m.setUser(nil)
		m.setLoading(false)
		return
	}
	m.reloadIdentity(ctx)
}

// Login exchanges credentials, persists the returned token pair, then
// reloads the identity. A failed login leaves any existing session intact.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	pair, err := m.api.Login(ctx, email, password)
	if err != nil {
		return errors.Wrap(err, "[Login] authentication failed")
	}

	if err := m.creds.Save(ctx, credentials.Tokens{Access: pair.AccessToken, Refresh: pair.RefreshToken}); err != nil {
		return errors.Wrap(err, "[Login] failed to persist tokens")
	}

	m.reloadIdentity(ctx)
	if m.User() == nil {
		return errors.New("[Login] identity reload failed after credential exchange")
	}
	return nil
}

// Register creates the account, then logs in with the same credentials.
// A rejected registration does not touch existing session state.
func (m *Manager) Register(ctx context.Context, email, password, fullName string) error {
	if _, err := m.api.Register(ctx, email, password, fullName); err != nil {
		return errors.Wrap(err, "[Register] account creation failed")
	}
	return m.Login(ctx, email, password)
}

// Logout unconditionally clears both tokens and the in-memory user. It is
// idempotent and never fails; a store error is logged and swallowed.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.creds.Clear(ctx); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear credential store on logout")
	}
	m.setUser(nil)
	m.setLoading(false)
}

// Refresh exchanges the stored refresh token for a new pair. Any failure,
// including a missing refresh token, forces a full logout rather than
// leaving a half-valid session. Invocation is the caller's responsibility;
// no timer schedules it.
func (m *Manager) Refresh(ctx context.Context) error {
	tokens, err := m.creds.Tokens(ctx)
	if err != nil || tokens.Refresh == "" {
		m.Logout(ctx)
		return nil
	}

	pair, err := m.api.Refresh(ctx, tokens.Refresh)
	if err != nil {
		m.log.Debug().Err(err).Msg("token refresh rejected, logging out")
		m.Logout(ctx)
		return errors.Wrap(err, "[Refresh] token exchange failed")
	}

	if err := m.creds.Save(ctx, credentials.Tokens{Access: pair.AccessToken, Refresh: pair.RefreshToken}); err != nil {
		m.Logout(ctx)
		return errors.Wrap(err, "[Refresh] failed to persist rotated tokens")
	}
	return nil
}

// reloadIdentity fetches the current user with the stored access token.
// Any failure, malformed payload included, clears both tokens and settles
// to anonymous; an unreadable identity is never treated as transient.
// Every path ends with loading=false.
func (m *Manager) reloadIdentity(ctx context.Context) {
	defer m.setLoading(false)

	tokens, err := m.creds.Tokens(ctx)
	if err != nil || !tokens.Present() {
		m.setUser(nil)
		return
	}

	user, err := m.api.Me(ctx, tokens.Access)
	if err != nil || user.ID == 0 {
		if err != nil {
			m.log.Debug().Err(err).Msg("identity reload failed, clearing session")
		}
		if clearErr := m.creds.Clear(ctx); clearErr != nil {
			m.log.Warn().Err(clearErr).Msg("failed to clear credential store after reload failure")
		}
		m.setUser(nil)
		return
	}

	m.log.Debug().Str("user", user.DisplayName()).Msg("identity reloaded")
	m.setUser(user)
}

// User returns a copy of the current identity, or nil when anonymous or
// still loading.
func (m *Manager) User() *authapi.User {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Loading reports whether the initial identity reload has not yet settled.
func (m *Manager) Loading() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.loading
}

// State derives the consumer-visible session state. Once Unknown is left it
// is never re-entered.
func (m *Manager) State() State {
	m.lock.RLock()
	defer m.lock.RUnlock()
	switch {
	case m.loading:
		return StateUnknown
	case m.user != nil:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

func (m *Manager) setUser(u *authapi.User) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.user = u
}

func (m *Manager) setLoading(loading bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.loading = loading
}
