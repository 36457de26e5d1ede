// internal/notify/notifier.go
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/walink-backend/internal/queue"
)

// Notifier delivers notices raised outside a request, e.g. by a progress driver.
type Notifier interface {
	Notify(ctx context.Context, ownerID string, n Notice) error
}

// LogNotifier writes notices to the log only.
type LogNotifier struct {
	Log *zap.Logger
}

func (l *LogNotifier) Notify(ctx context.Context, ownerID string, n Notice) error {
	fields := []zap.Field{zap.String("owner_id", ownerID), zap.String("message", n.Message)}
	switch n.Level {
	case LevelError:
		l.Log.Error("notice", fields...)
	case LevelWarning:
		l.Log.Warn("notice", fields...)
	default:
		l.Log.Info("notice", append(fields, zap.String("level", n.Level))...)
	}
	return nil
}

// Envelope is the payload carried on the notifications topic.
type Envelope struct {
	OwnerID string `json:"owner_id"`
	Notice  Notice `json:"notice"`
}

// QueueNotifier publishes notices on the notifications topic. When publishing fails the
// notice goes to Fallback so it is never lost silently.
type QueueNotifier struct {
	Queue    queue.Queue
	Fallback Notifier
}

func (q *QueueNotifier) Notify(ctx context.Context, ownerID string, n Notice) error {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	err := q.Queue.Publish(queue.TopicNotifications, Envelope{OwnerID: ownerID, Notice: n})
	if err != nil && q.Fallback != nil {
		return q.Fallback.Notify(ctx, ownerID, n)
	}
	return err
}

// StartInboxSubscriber moves notices from the notifications topic into the inbox.
func StartInboxSubscriber(q queue.Queue, inbox Notifier, log *zap.Logger) error {
	return q.Subscribe(queue.TopicNotifications, func(payload any) error {
		var env Envelope
		if err := queue.Decode(payload, &env); err != nil || env.OwnerID == "" {
			log.Warn("⚠️ invalid notice payload, dropping", zap.Error(err))
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return inbox.Notify(ctx, env.OwnerID, env.Notice)
	})
}

var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = (*QueueNotifier)(nil)
)
