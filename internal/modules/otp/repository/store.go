package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeStore holds one pending verification code per email.
type CodeStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	// Consume deletes the stored code only when it matches; a mismatch leaves it usable.
	Consume(ctx context.Context, email, code string) (bool, error)
}

const keyPrefix = "otp:"

// consumeScript compares and deletes in one step so a code is accepted at most once.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisCodeStore struct {
	client *redis.Client
}

func NewRedisCodeStore(client *redis.Client) CodeStore {
	return &redisCodeStore{client: client}
}

func (s *redisCodeStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+email, code, ttl).Err()
}

func (s *redisCodeStore) Consume(ctx context.Context, email, code string) (bool, error) {
	deleted, err := consumeScript.Run(ctx, s.client, []string{keyPrefix + email}, code).Int()
	if err != nil {
		return false, err
	}
	return deleted == 1, nil
}

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

type memoryCodeStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCodeStore keeps codes in process; only suitable for a single instance.
func NewMemoryCodeStore() CodeStore {
	return &memoryCodeStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *memoryCodeStore) Save(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[email] = memoryEntry{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *memoryCodeStore) Consume(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[email]
	if !ok {
		return false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, email)
		return false, nil
	}
	if entry.code != code {
		return false, nil
	}
	delete(s.entries, email)
	return true, nil
}
