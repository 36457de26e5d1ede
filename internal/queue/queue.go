package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Topics
const (
	TopicMessageSends  = "message_sends"
	TopicNotifications = "notifications"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process queue with retry
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	wg       sync.WaitGroup

	log        *zap.Logger
	maxRetries int
	backoff    time.Duration
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(log *zap.Logger, maxRetries int) *InMemoryQueue {
	if log == nil {
		log = zap.NewNop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		log:        log,
		maxRetries: maxRetries,
		backoff:    500 * time.Millisecond,
	}
}

// WithBackoff sets the base delay between attempts. The n-th retry waits n*d.
func (q *InMemoryQueue) WithBackoff(d time.Duration) *InMemoryQueue {
	q.backoff = d
	return q
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Topic      string
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Topic:      topic,
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: q.maxRetries,
	}

	for _, handler := range handlers {
		q.wg.Add(1)
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	defer q.wg.Done()
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			q.log.Debug("job processed", zap.String("topic", job.Topic))
			return // ACK
		}

		job.RetryCount++
		q.log.Warn("job failed",
			zap.String("topic", job.Topic),
			zap.Int("attempt", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err))

		if job.RetryCount > job.MaxRetries {
			q.log.Error("job permanently failed", zap.String("topic", job.Topic), zap.Int("attempts", job.RetryCount))
			return // No requeue
		}

		time.Sleep(time.Duration(job.RetryCount) * q.backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every published job has been acked or dropped.
func (q *InMemoryQueue) Wait() {
	q.wg.Wait()
}

// Decode fills out from a payload delivered by any Queue implementation: raw JSON from the
// broker or the original Go value from the in-memory queue.
func Decode(payload any, out any) error {
	switch p := payload.(type) {
	case json.RawMessage:
		return json.Unmarshal(p, out)
	case []byte:
		return json.Unmarshal(p, out)
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, out)
	}
}

var _ Queue = (*InMemoryQueue)(nil)
