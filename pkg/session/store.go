package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/eatn/pkg/cache"
)

// Store persists session payloads keyed by session id.
type Store interface {
	Load(ctx context.Context, id string) (map[string]interface{}, error)
	Save(ctx context.Context, id string, data map[string]interface{}, ttl time.Duration) error
	Destroy(ctx context.Context, id string) error
}

// RedisStore keeps sessions in Redis through the shared cache client.
type RedisStore struct {
	Prefix string
}

func NewRedisStore() *RedisStore { return &RedisStore{Prefix: "eatn:session:"} }

func (s *RedisStore) key(id string) string { return s.Prefix + id }

func (s *RedisStore) Load(ctx context.Context, id string) (map[string]interface{}, error) {
	data := map[string]interface{}{}
	err := cache.Get(ctx, s.key(id), &data)
	if errors.Is(err, cache.ErrMiss) {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, data map[string]interface{}, ttl time.Duration) error {
	if err := cache.Set(ctx, s.key(id), data, ttl); err != nil {
		return fmt.Errorf("session: redis save: %w", err)
	}
	return nil
}

func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	return cache.Del(ctx, s.key(id))
}

// MemoryStore keeps sessions in process. Payloads round-trip through JSON so
// values read back the same way they do from Redis.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	raw     []byte
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]memoryItem{}, now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, id string) (map[string]interface{}, error) {
	s.mu.Lock()
	item, ok := s.items[id]
	if ok && s.now().After(item.expires) {
		delete(s.items, id)
		ok = false
	}
	s.mu.Unlock()

	data := map[string]interface{}{}
	if !ok {
		return data, nil
	}
	if err := json.Unmarshal(item.raw, &data); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	return data, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, data map[string]interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	s.mu.Lock()
	s.items[id] = memoryItem{raw: raw, expires: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
