package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"kidzcarehub/pkg"
)

// Store keeps per-session UI preferences.  Entries expire; nothing here is
// meant to outlive a browsing session.
type Store interface {
	Get(ctx context.Context, sessionID string) (pkg.Preferences, error)
	Save(ctx context.Context, sessionID string, prefs pkg.Preferences) error
}

const keyPrefix = "kidzcare:prefs:"

// RedisStore keeps preferences in Redis with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get returns the stored preferences, or the defaults for an unknown session.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (pkg.Preferences, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return pkg.DefaultPreferences(), nil
	}
	if err != nil {
		return pkg.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	var prefs pkg.Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return pkg.Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}
	return prefs, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, prefs pkg.Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// MemoryStore is the single-process fallback used when no Redis address is
// configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	prefs   pkg.Preferences
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (pkg.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[sessionID]
	if !ok || s.now().After(e.expires) {
		delete(s.entries, sessionID)
		return pkg.DefaultPreferences(), nil
	}
	return e.prefs, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, prefs pkg.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
		}
	}
	s.entries[sessionID] = memoryEntry{prefs: prefs, expires: now.Add(s.ttl)}
	return nil
}
