package templates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fakepost/internal/domain"
)

const redisKeyPrefix = "fakepost:template:"

// RedisClient is the subset of redis.Cmdable the store uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps each slot as one string value.
type RedisStore struct {
	client RedisClient
	ttl    time.Duration
}

// NewRedisStore wraps client. A zero ttl keeps templates forever.
func NewRedisStore(client RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// DialRedis connects to the server at url and pings it.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("templates: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("templates: connect redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Save(ctx context.Context, slot string, t domain.Template) error {
	raw, err := Encode(t)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKeyPrefix+slot, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("templates: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, slot string) (domain.Template, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Template{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Template{}, fmt.Errorf("templates: redis get: %w", err)
	}
	return Decode(raw)
}

var _ Store = (*RedisStore)(nil)
var _ RedisClient = (*redis.Client)(nil)
