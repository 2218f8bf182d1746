// Package filestore persists the credential pair in a local JSON file, the
// durable-storage analog of the browser's localStorage.
package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/dohahub/eduhub-edge/credentials"
)

const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

var _ credentials.Store = (*Store)(nil)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Tokens(_ context.Context) (credentials.Tokens, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return credentials.Tokens{}, nil
	}
	if err != nil {
		return credentials.Tokens{}, errors.Wrap(err, "[Tokens] failed to read credentials file")
	}

	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		return credentials.Tokens{}, errors.Wrap(err, "[Tokens] corrupt credentials file")
	}
	return credentials.Tokens{
		Access:  stored[accessTokenKey],
		Refresh: stored[refreshTokenKey],
	}, nil
}

func (s *Store) Save(_ context.Context, t credentials.Tokens) error {
	data, err := json.Marshal(map[string]string{
		accessTokenKey:  t.Access,
		refreshTokenKey: t.Refresh,
	})
	if err != nil {
		return errors.Wrap(err, "[Save] failed to encode credentials")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "[Save] failed to create credentials directory")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "[Save] failed to write credentials file")
	}
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[Clear] failed to remove credentials file")
	}
	return nil
}
