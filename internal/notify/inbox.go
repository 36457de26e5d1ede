// internal/notify/inbox.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	inboxPrefix = "notices:"
	inboxLimit  = 50
	inboxTTL    = 24 * time.Hour
)

// RedisInbox keeps the latest notices of each owner in a capped Redis list until the
// console drains them.
type RedisInbox struct {
	Client *redis.Client
}

func inboxKey(ownerID string) string { return inboxPrefix + ownerID }

func (r *RedisInbox) Notify(ctx context.Context, ownerID string, n Notice) error {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	key := inboxKey(ownerID)
	pipe := r.Client.TxPipeline()
	pipe.LPush(ctx, key, b)
	pipe.LTrim(ctx, key, 0, inboxLimit-1)
	pipe.Expire(ctx, key, inboxTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push notice: %w", err)
	}
	return nil
}

// Drain returns the owner's pending notices, oldest first, and clears them.
func (r *RedisInbox) Drain(ctx context.Context, ownerID string) ([]Notice, error) {
	key := inboxKey(ownerID)
	pipe := r.Client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("drain notices: %w", err)
	}

	raw := rangeCmd.Val()
	notices := make([]Notice, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var n Notice
		if err := json.Unmarshal([]byte(raw[i]), &n); err != nil {
			continue
		}
		notices = append(notices, n)
	}
	return notices, nil
}

var _ Notifier = (*RedisInbox)(nil)
