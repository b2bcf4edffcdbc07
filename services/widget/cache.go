package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LinkCache remembers hosted KYC links so they are not re-requested on every step change
type LinkCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, link string) error
	Delete(ctx context.Context, key string) error
}

// NewLinkCache returns a redis backed cache when client is set, an in-memory one otherwise
func NewLinkCache(client *redis.Client, ttl time.Duration) LinkCache {
	if client != nil {
		return &redisLinkCache{client: client, ttl: ttl}
	}
	return newMemoryLinkCache(ttl)
}

func linkCacheKey(sessionID, email string) string {
	return fmt.Sprintf("kyc_link:%s:%s", sessionID, strings.ToLower(strings.TrimSpace(email)))
}

type memoryEntry struct {
	link      string
	expiresAt time.Time
}

type memoryLinkCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func newMemoryLinkCache(ttl time.Duration) *memoryLinkCache {
	return &memoryLinkCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *memoryLinkCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false, nil
	}
	if c.ttl > 0 && c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return "", false, nil
	}
	return entry.link, true, nil
}

func (c *memoryLinkCache) Set(_ context.Context, key, link string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{link: link, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *memoryLinkCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

type redisLinkCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisLinkCache) Get(ctx context.Context, key string) (string, bool, error) {
	link, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read link cache: %w", err)
	}
	return link, true, nil
}

func (c *redisLinkCache) Set(ctx context.Context, key, link string) error {
	if err := c.client.Set(ctx, key, link, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write link cache: %w", err)
	}
	return nil
}

func (c *redisLinkCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
