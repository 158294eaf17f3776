package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Cache stores encoded read results grouped by namespace. Invalidate drops
// every key of a namespace at once and moves it to a new version.
//
// Get reports the namespace version it read under. A value loaded after a
// miss must be passed back to Set with that version; Set drops it when the
// namespace was invalidated in between.
type Cache interface {
	Get(ctx context.Context, namespace, key string) (val []byte, version string, ok bool, err error)
	Set(ctx context.Context, namespace, version, key string, val []byte) error
	Invalidate(ctx context.Context, namespace string) error
}

// Memory is a process-local Cache with a fixed TTL.
type Memory struct {
	mu   sync.Mutex
	ttl  time.Duration
	m    map[string]entry
	gens map[string]uint64
	now  func() time.Time
}

type entry struct {
	val []byte
	exp time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Memory{
		ttl:  ttl,
		m:    make(map[string]entry),
		gens: make(map[string]uint64),
		now:  time.Now,
	}
}

func memoryKey(namespace, key string) string {
	return namespace + "|" + key
}

func (c *Memory) Get(_ context.Context, namespace, key string) ([]byte, string, bool, error) {
	k := memoryKey(namespace, key)
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	version := strconv.FormatUint(c.gens[namespace], 10)

	e, ok := c.m[k]
	if !ok {
		return nil, version, false, nil
	}

	if now.After(e.exp) {
		delete(c.m, k)
		return nil, version, false, nil
	}

	return e.val, version, true, nil
}

func (c *Memory) Set(_ context.Context, namespace, version, key string, val []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// loaded before the last invalidate
	if version != strconv.FormatUint(c.gens[namespace], 10) {
		return nil
	}

	c.m[memoryKey(namespace, key)] = entry{val: val, exp: c.now().Add(c.ttl)}
	return nil
}

func (c *Memory) Invalidate(_ context.Context, namespace string) error {
	prefix := namespace + "|"

	c.mu.Lock()
	c.gens[namespace]++
	for k := range c.m {
		if strings.HasPrefix(k, prefix) {
			delete(c.m, k)
		}
	}
	c.mu.Unlock()
	return nil
}

func (c *Memory) Clear() {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
}
