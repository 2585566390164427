package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisTTL is a safety net: if a process dies before Close, entries expire
// on their own instead of accumulating in the server.
const redisTTL = time.Hour

// RedisStore is a Redis-backed artifact store. Artifacts live under
// gridplot:<namespace>:<index>, where the namespace is unique per
// invocation, so concurrent grids on the same server never collide.
type RedisStore struct {
	client *redis.Client
	ns     string

	mu     sync.Mutex
	closed bool
}

// OpenRedis connects to the given Redis address and creates a fresh
// namespace. The connection is verified with a ping before any worker
// starts.
func OpenRedis(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return &RedisStore{client: client, ns: uuid.NewString()}, nil
}

// NewRedisStore wraps an existing client with a fresh namespace. The caller
// keeps ownership of the client's lifecycle only if Close is never called;
// Close always closes the client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ns: uuid.NewString()}
}

func (s *RedisStore) key(index int) string {
	return fmt.Sprintf("gridplot:%s:%d", s.ns, index)
}

// Put stores one artifact under its namespaced key.
func (s *RedisStore) Put(ctx context.Context, index int, data []byte) (Handle, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return Handle{}, ErrClosed
	}

	key := s.key(index)
	if err := s.client.Set(ctx, key, data, redisTTL).Err(); err != nil {
		return Handle{}, fmt.Errorf("write artifact %d: %w", index, err)
	}
	return Handle{Index: index, Location: key}, nil
}

// Get loads an artifact. A missing key maps to ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, h Handle) ([]byte, error) {
	data, err := s.client.Get(ctx, h.Location).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("artifact %d at %s: %w", h.Index, h.Location, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %d: %w", h.Index, err)
	}
	return data, nil
}

// Close deletes every key in the namespace unless retain is true, then
// closes the client.
func (s *RedisStore) Close(retain bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if !retain {
		ctx := context.Background()
		pattern := fmt.Sprintf("gridplot:%s:*", s.ns)
		var cursor uint64
		for {
			keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				_ = s.client.Close()
				return fmt.Errorf("purge namespace %s: %w", s.ns, err)
			}
			if len(keys) > 0 {
				if err := s.client.Del(ctx, keys...).Err(); err != nil {
					_ = s.client.Close()
					return fmt.Errorf("purge namespace %s: %w", s.ns, err)
				}
			}
			cursor = next
			if cursor == 0 {
				break
			}
		}
	}
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
