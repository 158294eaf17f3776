package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// Redis is a shared Cache. Each namespace carries a generation counter;
// Invalidate bumps it so stale keys are never read again and expire by TTL.
type Redis struct {
	redisdb *redis.Client
	ttl     time.Duration
	prefix  string
}

func NewRedis(cfg RedisConfig) *Redis {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return newRedis(redisdb, cfg.TTL, cfg.Prefix)
}

func newRedis(redisdb *redis.Client, ttl time.Duration, prefix string) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if prefix == "" {
		prefix = "bintrack"
	}
	return &Redis{redisdb: redisdb, ttl: ttl, prefix: prefix}
}

func (c *Redis) genKey(namespace string) string {
	return c.prefix + ":" + namespace + ":gen"
}

func (c *Redis) generation(ctx context.Context, namespace string) (string, error) {
	gen, err := c.redisdb.Get(ctx, c.genKey(namespace)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

func (c *Redis) dataKey(namespace, gen, key string) string {
	return c.prefix + ":" + namespace + ":v" + gen + ":" + key
}

func (c *Redis) Get(ctx context.Context, namespace, key string) ([]byte, string, bool, error) {
	gen, err := c.generation(ctx, namespace)
	if err != nil {
		return nil, "", false, err
	}

	val, err := c.redisdb.Get(ctx, c.dataKey(namespace, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, "", false, err
	}
	return val, gen, true, nil
}

// Set writes under the generation the caller read. After an Invalidate that
// key is no longer looked up and only waits for its TTL.
func (c *Redis) Set(ctx context.Context, namespace, version, key string, val []byte) error {
	return c.redisdb.Set(ctx, c.dataKey(namespace, version, key), val, c.ttl).Err()
}

func (c *Redis) Invalidate(ctx context.Context, namespace string) error {
	return c.redisdb.Incr(ctx, c.genKey(namespace)).Err()
}

// Ping checks redis connectivity.
func (c *Redis) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.redisdb.Close()
}

// Generation exposes a namespace's current generation, mostly for tests.
func (c *Redis) Generation(ctx context.Context, namespace string) (int64, error) {
	gen, err := c.generation(ctx, namespace)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(gen, 10, 64)
}
