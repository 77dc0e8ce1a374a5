// Package session keeps each visitor's ViewState between requests.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/oiwatch/internal/ranking"
	"github.com/wonny/oiwatch/pkg/config"
	"github.com/wonny/oiwatch/pkg/logger"
	"github.com/wonny/oiwatch/pkg/redis"
)

// Store persists ViewState per session id
type Store interface {
	Load(ctx context.Context, id string) (ranking.ViewState, bool, error)
	Save(ctx context.Context, id string, state ranking.ViewState) error
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh random session id
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one produced by NewID
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// New picks the redis store when redis is enabled, the in-memory store otherwise
func New(cfg *config.Config, client *redis.Client, log *logger.Logger) Store {
	if client != nil && client.Enabled() {
		log.WithField("store", "redis").Info("Session store ready")
		return NewRedisStore(client, cfg.Session.TTL, log)
	}
	log.WithField("store", "memory").Info("Session store ready")
	return NewMemoryStore(cfg.Session.TTL)
}

// sessionCache is the subset of *redis.Cache the store uses
type sessionCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Touch(ctx context.Context, key string, ttl time.Duration) error
}

// RedisStore keeps sessions in redis under oiwatch:session:<id>
type RedisStore struct {
	cache  sessionCache
	ttl    time.Duration
	logger *logger.Logger
}

// NewRedisStore creates a redis-backed store
func NewRedisStore(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisStore {
	return &RedisStore{
		cache:  redis.NewCache(client, "oiwatch"),
		ttl:    ttl,
		logger: log.WithComponent("session"),
	}
}

func (s *RedisStore) Load(ctx context.Context, id string) (ranking.ViewState, bool, error) {
	var state ranking.ViewState
	found, err := s.cache.Get(ctx, redis.SessionKey(id), &state)
	if err != nil {
		return ranking.ViewState{}, false, fmt.Errorf("load session: %w", err)
	}
	if found {
		// sliding expiry; the state read above is still valid
		if err := s.cache.Touch(ctx, redis.SessionKey(id), s.ttl); err != nil {
			s.logger.WithError(err).WithField("session", id).Warn("Failed to refresh session ttl")
		}
	}
	return state, found, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, state ranking.ViewState) error {
	if err := s.cache.Set(ctx, redis.SessionKey(id), state, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, redis.SessionKey(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

type memoryEntry struct {
	state     ranking.ViewState
	expiresAt time.Time
}

// MemoryStore is a process-local store with sliding expiry
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory store. ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (ranking.ViewState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return ranking.ViewState{}, false, nil
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		return ranking.ViewState{}, false, nil
	}

	entry.expiresAt = s.now().Add(s.ttl)
	s.entries[id] = entry
	return entry.state, true, nil
}

func (s *MemoryStore) Save(ctx context.Context, id string, state ranking.ViewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = memoryEntry{state: state, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// Sweep drops expired sessions and returns how many were removed
func (s *MemoryStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
