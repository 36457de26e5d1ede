package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/unclebandit/walink-backend/internal/queue"
)

func newInbox(t *testing.T) *RedisInbox {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &RedisInbox{Client: client}
}

func TestRedisInbox_DrainOrderAndClear(t *testing.T) {
	inbox := newInbox(t)
	ctx := context.Background()

	require.NoError(t, inbox.Notify(ctx, "u1", Success("Campaña completada")))
	require.NoError(t, inbox.Notify(ctx, "u1", Info("segunda")))
	require.NoError(t, inbox.Notify(ctx, "u2", Error("otra cuenta")))

	notices, err := inbox.Drain(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notices, 2)
	assert.Equal(t, "Campaña completada", notices[0].Message)
	assert.Equal(t, LevelInfo, notices[1].Level)

	notices, err = inbox.Drain(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, notices)
}

func TestRedisInbox_Capped(t *testing.T) {
	inbox := newInbox(t)
	ctx := context.Background()
	for i := 0; i < inboxLimit+5; i++ {
		require.NoError(t, inbox.Notify(ctx, "u1", Info(fmt.Sprintf("n%d", i))))
	}
	notices, err := inbox.Drain(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, notices, inboxLimit)
	assert.Equal(t, fmt.Sprintf("n%d", inboxLimit+4), notices[len(notices)-1].Message)
}

type recordingNotifier struct {
	got []Envelope
}

func (r *recordingNotifier) Notify(ctx context.Context, ownerID string, n Notice) error {
	r.got = append(r.got, Envelope{OwnerID: ownerID, Notice: n})
	return nil
}

type brokenQueue struct{}

func (brokenQueue) Publish(string, any) error                      { return errors.New("broker down") }
func (brokenQueue) Subscribe(string, func(payload any) error) error { return nil }

func TestQueueNotifier_FallsBack(t *testing.T) {
	fallback := &recordingNotifier{}
	n := &QueueNotifier{Queue: brokenQueue{}, Fallback: fallback}

	require.NoError(t, n.Notify(context.Background(), "u1", Warning("x")))
	require.Len(t, fallback.got, 1)
	assert.Equal(t, "u1", fallback.got[0].OwnerID)
}

func TestQueueNotifier_ReachesInbox(t *testing.T) {
	log := zaptest.NewLogger(t)
	q := queue.NewInMemoryQueue(log, 1).WithBackoff(time.Millisecond)
	inbox := newInbox(t)
	require.NoError(t, StartInboxSubscriber(q, inbox, log))

	n := &QueueNotifier{Queue: q, Fallback: &LogNotifier{Log: log}}
	require.NoError(t, n.Notify(context.Background(), "u1", Success("Campaña completada")))
	q.Wait()

	notices, err := inbox.Drain(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.False(t, notices[0].At.IsZero())
}
