package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/campusworks/storefront-checkout/pkg/errors"
	"github.com/campusworks/storefront-checkout/pkg/redis"
)

// SnapshotStore persists checkout snapshots per session.
type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, payload []byte) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisSnapshotStore keeps checkout snapshots in Redis with a TTL.
type RedisSnapshotStore struct {
	client *redis.Client
	tenant string
	ttl    time.Duration
}

// NewRedisSnapshotStore binds the store to the provided client and tenant.
func NewRedisSnapshotStore(client *redis.Client, tenant string, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, tenant: tenant, ttl: ttl}
}

// Load fetches the raw snapshot. A missing key yields nil, not an error.
func (s *RedisSnapshotStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.client.CheckoutKey(s.tenant, sessionID))
	if errors.Is(err, redis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout snapshot")
	}
	return []byte(raw), nil
}

// Save stores the raw snapshot under the session key.
func (s *RedisSnapshotStore) Save(ctx context.Context, sessionID string, payload []byte) error {
	if err := s.client.Set(ctx, s.client.CheckoutKey(s.tenant, sessionID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout snapshot")
	}
	return nil
}

// Delete removes the session's snapshot.
func (s *RedisSnapshotStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CheckoutKey(s.tenant, sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete checkout snapshot")
	}
	return nil
}

// Manager owns the live checkout sessions. A session stays resident in
// process memory between requests, holding transient state such as quoted
// rates; the snapshot store keeps only the allow-listed fields, so a session
// rebuilt after a restart or expiry comes back without stale quotes. Each
// session has one logical writer; the manager serializes only its own map
// access.
type Manager struct {
	store SnapshotStore

	mu   sync.Mutex
	live map[string]*Session
}

// NewManager builds a session manager over the given store.
func NewManager(store SnapshotStore) (*Manager, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "snapshot store required")
	}
	return &Manager{store: store, live: make(map[string]*Session)}, nil
}

// Load returns the live session for the given id, restoring it from the
// snapshot store (or starting fresh) when none is resident.
func (m *Manager) Load(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	if session, ok := m.live[sessionID]; ok {
		m.mu.Unlock()
		return session, nil
	}
	m.mu.Unlock()

	payload, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session, err := RestoreSession(payload)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.live[sessionID] = session
	m.mu.Unlock()
	return session, nil
}

// Save persists the session's allow-listed fields and keeps it resident.
func (m *Manager) Save(ctx context.Context, sessionID string, session *Session) error {
	payload, err := session.MarshalSnapshot()
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, sessionID, payload); err != nil {
		return err
	}
	m.mu.Lock()
	m.live[sessionID] = session
	m.mu.Unlock()
	return nil
}

// Reset evicts the live session and deletes its persisted snapshot.
func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.live, sessionID)
	m.mu.Unlock()
	return m.store.Delete(ctx, sessionID)
}
