// Package credentials defines the single credential-provider interface every
// authenticated call site goes through. Storage-key knowledge lives in the
// implementations, not in callers.
package credentials

import "context"

// Tokens is the bearer credential pair the backend issues on login/refresh.
type Tokens struct {
	Access  string
	Refresh string
}

// Present reports whether an access token exists.
func (t Tokens) Present() bool {
	return t.Access != ""
}

// Store is the durable token storage shared by the session manager and any
// other call site that attaches credentials to outgoing requests. The stored
// pair is the single source of truth across restarts; in-memory session
// state is reconstructed from it, never the reverse.
type Store interface {
	// Tokens returns the stored pair. Absent tokens come back as zero
	// values, not as an error.
	Tokens(ctx context.Context) (Tokens, error)
	Save(ctx context.Context, t Tokens) error
	// Clear removes both tokens. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
