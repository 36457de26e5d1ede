package queue

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const retryHeader = "x-retry-count"

// AMQPQueue publishes and consumes JSON jobs over RabbitMQ. Each topic maps to a durable queue
// of the same name.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex // amqp.Channel is not safe for concurrent publishes

	log        *zap.Logger
	maxRetries int
	declared   map[string]bool
}

// NewAMQPQueue dials the broker and opens a channel.
func NewAMQPQueue(url string, log *zap.Logger, maxRetries int) (*AMQPQueue, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return &AMQPQueue{
		conn:       conn,
		ch:         ch,
		log:        log,
		maxRetries: maxRetries,
		declared:   map[string]bool{},
	}, nil
}

func (q *AMQPQueue) declare(topic string) error {
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

// Publish marshals payload to JSON and sends it to the topic queue.
func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return q.publish(topic, body, 0)
}

func (q *AMQPQueue) publish(topic string, body []byte, retries int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.declare(topic); err != nil {
		return err
	}
	return q.ch.Publish(
		"",    // default exchange
		topic, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Headers:      amqp.Table{retryHeader: int32(retries)},
			Body:         body,
		},
	)
}

// Subscribe starts a consumer goroutine. The handler receives json.RawMessage; use Decode.
// A failed job is republished with an incremented retry header until maxRetries, then dropped.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	err := q.declare(topic)
	var msgs <-chan amqp.Delivery
	if err == nil {
		msgs, err = q.ch.Consume(
			topic,
			"",
			false, // autoAck = false for reliability
			false,
			false,
			false,
			nil,
		)
	}
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("register consumer for %s: %w", topic, err)
	}

	go func() {
		for d := range msgs {
			q.handleDelivery(topic, d, handler)
		}
		q.log.Info("consumer stopped", zap.String("topic", topic))
	}()
	return nil
}

func (q *AMQPQueue) handleDelivery(topic string, d amqp.Delivery, handler func(payload any) error) {
	err := handler(json.RawMessage(d.Body))
	if err == nil {
		d.Ack(false)
		return
	}

	retries := retryCount(d.Headers)
	q.log.Warn("job failed", zap.String("topic", topic), zap.Int("attempt", retries+1), zap.Error(err))
	if retries < q.maxRetries {
		if perr := q.publish(topic, d.Body, retries+1); perr != nil {
			q.log.Error("requeue failed", zap.String("topic", topic), zap.Error(perr))
			d.Nack(false, true)
			return
		}
	} else {
		q.log.Error("job permanently failed", zap.String("topic", topic), zap.Int("attempts", retries+1))
	}
	d.Ack(false)
}

func retryCount(h amqp.Table) int {
	switch v := h[retryHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// Close shuts the channel and the connection.
func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}

var _ Queue = (*AMQPQueue)(nil)
