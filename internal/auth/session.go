package auth

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// MemorySessionStore keeps sessions in process. Sessions do not survive a restart.
type MemorySessionStore struct {
	sessions *cache.Cache
}

func NewMemorySessionStore(cleanupInterval time.Duration) *MemorySessionStore {
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &MemorySessionStore{sessions: cache.New(cache.NoExpiration, cleanupInterval)}
}

func (m *MemorySessionStore) Save(_ context.Context, sessionID, email string, ttl time.Duration) error {
	m.sessions.Set(sessionID, email, ttl)
	return nil
}

func (m *MemorySessionStore) Exists(_ context.Context, sessionID string) (bool, error) {
	_, ok := m.sessions.Get(sessionID)
	return ok, nil
}

func (m *MemorySessionStore) Revoke(_ context.Context, sessionID string) error {
	m.sessions.Delete(sessionID)
	return nil
}

// RedisSessionStore shares sessions between server replicas.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// NewRedisClient connects to addr and pings it once.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, sessionID, email string, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKeyPrefix+sessionID, email, ttl).Err()
}

func (r *RedisSessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisSessionStore) Revoke(ctx context.Context, sessionID string) error {
	err := r.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
