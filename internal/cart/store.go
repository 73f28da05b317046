package cart

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/campusworks/storefront-checkout/pkg/errors"
	"github.com/campusworks/storefront-checkout/pkg/redis"
)

// Store persists cart snapshots per checkout session.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]Item, error)
	Save(ctx context.Context, sessionID string, items []Item) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore keeps cart snapshots in Redis under the versioned envelope, with
// a TTL so abandoned carts eventually expire.
type RedisStore struct {
	client *redis.Client
	tenant string
	ttl    time.Duration
}

// NewRedisStore binds the store to the provided client and tenant.
func NewRedisStore(client *redis.Client, tenant string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, tenant: tenant, ttl: ttl}
}

// Load fetches and decodes the session's cart snapshot. A missing key yields
// an empty cart, not an error.
func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]Item, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(s.tenant, sessionID))
	if errors.Is(err, redis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}
	items, err := DecodeSnapshot([]byte(raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart snapshot")
	}
	return items, nil
}

// Save serializes the items under the current storage version.
func (s *RedisStore) Save(ctx context.Context, sessionID string, items []Item) error {
	payload, err := EncodeSnapshot(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart snapshot")
	}
	if err := s.client.Set(ctx, s.client.CartKey(s.tenant, sessionID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart snapshot")
	}
	return nil
}

// Delete removes the session's cart snapshot.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(s.tenant, sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart snapshot")
	}
	return nil
}
