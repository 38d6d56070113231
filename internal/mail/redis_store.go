package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces verification codes in Redis.
const DefaultKeyPrefix = "account:verification:"

// consumeScript deletes the key only when the stored code matches, so a
// concurrent redeem of the same code succeeds at most once.
var consumeScript = redis.NewScript(`
local stored = redis.call("GET", KEYS[1])
if stored and stored == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

// RedisCodeStore is a CodeStore backed by Redis keys with a TTL.
type RedisCodeStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

var _ CodeStore = (*RedisCodeStore)(nil)

// NewRedisCodeStore creates a RedisCodeStore using DefaultKeyPrefix.
func NewRedisCodeStore(client redis.UniversalClient) *RedisCodeStore {
	return &RedisCodeStore{client: client, keyPrefix: DefaultKeyPrefix}
}

func (s *RedisCodeStore) key(email string) string {
	return s.keyPrefix + email
}

// Put implements CodeStore.
func (s *RedisCodeStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

// Consume implements CodeStore.
func (s *RedisCodeStore) Consume(ctx context.Context, email, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.client, []string{s.key(email)}, code).Int()
	if err != nil {
		return false, fmt.Errorf("failed to consume verification code: %w", err)
	}
	return n == 1, nil
}

// Delete implements CodeStore.
func (s *RedisCodeStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, s.key(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete verification code: %w", err)
	}
	return nil
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}
