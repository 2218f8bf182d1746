// Package redisstore keeps the credential pair in Redis so the edge can run
// more than one replica behind a load balancer.
package redisstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/dohahub/eduhub-edge/credentials"
)

const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

var _ credentials.Store = (*Store)(nil)

type Store struct {
	client *redis.Client
	prefix string
}

func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "eduhub-edge"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(name string) string {
	return s.prefix + ":" + name
}

func (s *Store) Tokens(ctx context.Context) (credentials.Tokens, error) {
	values, err := s.client.MGet(ctx, s.key(accessTokenKey), s.key(refreshTokenKey)).Result()
	if err != nil {
		return credentials.Tokens{}, errors.Wrap(err, "[Tokens] redis mget failed")
	}

	var tokens credentials.Tokens
	if v, ok := values[0].(string); ok {
		tokens.Access = v
	}
	if v, ok := values[1].(string); ok {
		tokens.Refresh = v
	}
	return tokens, nil
}

func (s *Store) Save(ctx context.Context, t credentials.Tokens) error {
	err := s.client.MSet(ctx,
		s.key(accessTokenKey), t.Access,
		s.key(refreshTokenKey), t.Refresh,
	).Err()
	return errors.Wrap(err, "[Save] redis mset failed")
}

func (s *Store) Clear(ctx context.Context) error {
	err := s.client.Del(ctx, s.key(accessTokenKey), s.key(refreshTokenKey)).Err()
	return errors.Wrap(err, "[Clear] redis del failed")
}
