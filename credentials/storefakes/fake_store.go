package storefakes

import (
	"context"
	"sync"

	"github.com/dohahub/eduhub-edge/credentials"
)

var _ credentials.Store = (*FakeStore)(nil)

// FakeStore is an in-memory credentials.Store for tests. Error fields, when
// set, are returned by the corresponding operation.
type FakeStore struct {
	lock   sync.RWMutex
	tokens credentials.Tokens

	TokensErr error
	SaveErr   error
	ClearErr  error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// Seed pre-populates the store without going through Save.
func (f *FakeStore) Seed(t credentials.Tokens) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.tokens = t
}

func (f *FakeStore) Tokens(_ context.Context) (credentials.Tokens, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	if f.TokensErr != nil {
		return credentials.Tokens{}, f.TokensErr
	}
	return f.tokens, nil
}

func (f *FakeStore) Save(_ context.Context, t credentials.Tokens) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.tokens = t
	return nil
}

func (f *FakeStore) Clear(_ context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.tokens = credentials.Tokens{}
	return nil
}
