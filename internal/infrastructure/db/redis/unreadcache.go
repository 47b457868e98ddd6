package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// unreadTTL bounds staleness between notification writes that bypass the
// invalidation path (direct database edits, bulk imports).
const unreadTTL = time.Minute

// UnreadCountCache caches per-user unread notification counts. The badge is
// polled on a short interval by every connected client, so a cheap cached
// read absorbs almost all of that traffic.
// Key format: unread:<user_id>
type UnreadCountCache struct {
	client *redis.Client
}

func NewUnreadCountCache(client *redis.Client) *UnreadCountCache {
	return &UnreadCountCache{client: client}
}

// Get returns the cached count and whether the key was present.
func (c *UnreadCountCache) Get(ctx context.Context, userID string) (int64, bool, error) {
	n, err := c.client.Get(ctx, c.key(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("unread cache get: %w", err)
	}
	return n, true, nil
}

func (c *UnreadCountCache) Set(ctx context.Context, userID string, count int64) error {
	return c.client.Set(ctx, c.key(userID), count, unreadTTL).Err()
}

// Invalidate drops the cached count after a delivery or a read-state change.
func (c *UnreadCountCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *UnreadCountCache) key(userID string) string {
	return fmt.Sprintf("unread:%s", userID)
}
