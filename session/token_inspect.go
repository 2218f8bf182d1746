package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NeedsRefresh reports whether the stored access token expires within the
// given window. The token is parsed without signature verification; only
// the backend can verify it, this side merely reads the exp claim to let
// callers refresh ahead of expiry. Tokens without a readable exp claim are
// treated as not needing refresh.
func (m *Manager) NeedsRefresh(ctx context.Context, within time.Duration) bool {
	tokens, err := m.creds.Tokens(ctx)
	if err != nil || !tokens.Present() {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokens.Access, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(m.nowTime().Add(within))
}
