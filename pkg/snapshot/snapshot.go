// Package snapshot is the persistence port of the shopper containers: state is
// loaded once per operation and replaced as a whole JSON object on every write.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	pkgredis "github.com/angelmondragon/florale-backend/pkg/redis"
)

// Kind identifies which container a snapshot belongs to.
type Kind string

const (
	KindCart    Kind = "cart"
	KindBuilder Kind = "builder"
)

// Store loads and saves whole-object snapshots keyed by (kind, session).
type Store interface {
	// Load decodes the snapshot into dest and reports whether one existed.
	Load(ctx context.Context, kind Kind, sessionID string, dest any) (bool, error)
	Save(ctx context.Context, kind Kind, sessionID string, value any) error
	Delete(ctx context.Context, kind Kind, sessionID string) error
}

type kv interface {
	GetEx(context.Context, string, time.Duration) (string, error)
	Set(context.Context, string, any, time.Duration) error
	Del(context.Context, ...string) error
	SnapshotKey(kind, sessionID string) string
}

// RedisStore keeps snapshots in redis under the fl:<kind>:<session> namespace.
type RedisStore struct {
	client kv
	ttl    time.Duration
}

// NewRedisStore builds a redis-backed store. A zero ttl keeps snapshots forever; otherwise every
// load slides the expiry so an active shopper never loses the cart mid-visit.
func NewRedisStore(client *pkgredis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(kind Kind, sessionID string) (string, error) {
	switch kind {
	case KindCart, KindBuilder:
		return s.client.SnapshotKey(string(kind), sessionID), nil
	}
	return "", fmt.Errorf("unknown snapshot kind %q", kind)
}

func (s *RedisStore) Load(ctx context.Context, kind Kind, sessionID string, dest any) (bool, error) {
	key, err := s.key(kind, sessionID)
	if err != nil {
		return false, err
	}
	raw, err := s.client.GetEx(ctx, key, s.ttl)
	if errors.Is(err, pkgredis.ErrNil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s snapshot: %w", kind, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decode %s snapshot: %w", kind, err)
	}
	return true, nil
}

func (s *RedisStore) Save(ctx context.Context, kind Kind, sessionID string, value any) error {
	key, err := s.key(kind, sessionID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", kind, err)
	}
	if err := s.client.Set(ctx, key, string(payload), s.ttl); err != nil {
		return fmt.Errorf("set %s snapshot: %w", kind, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, kind Kind, sessionID string) error {
	key, err := s.key(kind, sessionID)
	if err != nil {
		return err
	}
	return s.client.Del(ctx, key)
}

// MemoryStore keeps encoded snapshots in process memory. Used when redis is not
// configured and in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func memoryKey(kind Kind, sessionID string) string {
	return string(kind) + ":" + sessionID
}

func (s *MemoryStore) Load(_ context.Context, kind Kind, sessionID string, dest any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[memoryKey(kind, sessionID)]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode %s snapshot: %w", kind, err)
	}
	return true, nil
}

func (s *MemoryStore) Save(_ context.Context, kind Kind, sessionID string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", kind, err)
	}
	s.mu.Lock()
	s.data[memoryKey(kind, sessionID)] = payload
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, kind Kind, sessionID string) error {
	s.mu.Lock()
	delete(s.data, memoryKey(kind, sessionID))
	s.mu.Unlock()
	return nil
}
