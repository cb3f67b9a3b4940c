package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/felixgeelhaar/codementor/internal/domain"
)

// EventHandler processes one mentor event
type EventHandler func(ctx context.Context, e domain.Event) error

// Consumer consumes mentor events from a queue bound to the exchange
type Consumer struct {
	conn       *Connection
	handler    EventHandler
	logger     *slog.Logger
	queue      string
	bindings   []string
	workers    int
	prefetch   int
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// ConsumerConfig holds consumer configuration
type ConsumerConfig struct {
	// Queue names a durable queue to consume, declared if missing. Empty
	// declares an exclusive server-named queue that disappears with the
	// consumer.
	Queue string
	// EventTypes limits the routing keys bound to the queue. Empty binds all.
	// Bindings are only added; ones left on a named queue by an earlier
	// consumer stay in place.
	EventTypes []domain.EventType
	Workers    int
	Prefetch   int
	Logger     *slog.Logger
}

// DefaultConsumerConfig returns sensible defaults
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Workers:  1,
		Prefetch: 1,
	}
}

// NewConsumer creates a new event consumer
func NewConsumer(conn *Connection, handler EventHandler, cfg ConsumerConfig) *Consumer {
	cfg = cfg.withDefaults()
	return &Consumer{
		conn:     conn,
		handler:  handler,
		logger:   cfg.Logger,
		queue:    cfg.Queue,
		bindings: cfg.bindings(),
		workers:  cfg.Workers,
		prefetch: cfg.Prefetch,
	}
}

func (cfg ConsumerConfig) withDefaults() ConsumerConfig {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

func (cfg ConsumerConfig) bindings() []string {
	if len(cfg.EventTypes) == 0 {
		return []string{"#"}
	}
	keys := make([]string, len(cfg.EventTypes))
	for i, t := range cfg.EventTypes {
		keys[i] = string(t)
	}
	return keys
}

// Start declares the queue, binds it and starts the workers
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancelFunc = context.WithCancel(ctx)

	ch := c.conn.Channel()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	queue, err := c.declareQueue(ch)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(
		queue,
		"",    // consumer tag (auto-generated)
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("starting event consumer", "queue", queue, "bindings", c.bindings, "workers", c.workers)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(ctx, i, msgs)
	}

	return nil
}

// queueDeclarer is the part of a channel used to set up the consumer queue
type queueDeclarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// declareQueue declares the consumer queue and binds it to the exchange for
// every configured routing key
func (c *Consumer) declareQueue(ch queueDeclarer) (string, error) {
	var (
		q   amqp.Queue
		err error
	)
	if c.queue == "" {
		q, err = ch.QueueDeclare("", false, true, true, false, nil)
	} else {
		q, err = ch.QueueDeclare(c.queue, true, false, false, false, queueArgs(c.queue))
	}
	if err != nil {
		return "", fmt.Errorf("failed to declare queue %q: %w", c.queue, err)
	}

	for _, key := range c.bindings {
		if err := ch.QueueBind(q.Name, key, ExchangeName, false, nil); err != nil {
			return "", fmt.Errorf("failed to bind %q to %q: %w", q.Name, key, err)
		}
	}
	return q.Name, nil
}

// worker processes deliveries until ctx is done or the channel closes
func (c *Consumer) worker(ctx context.Context, id int, msgs <-chan amqp.Delivery) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				c.logger.Info("delivery channel closed", "worker_id", id)
				return
			}
			c.processMessage(ctx, id, msg)
		}
	}
}

// processMessage decodes and handles a delivery. Malformed messages are
// rejected, handler failures are requeued once.
func (c *Consumer) processMessage(ctx context.Context, workerID int, msg amqp.Delivery) {
	var event domain.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Error("failed to unmarshal event", "worker_id", workerID, "error", err)
		_ = msg.Reject(false)
		return
	}

	if err := c.handler(ctx, event); err != nil {
		c.logger.Error("event handling failed",
			"worker_id", workerID,
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err,
		)
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}

	if err := msg.Ack(false); err != nil {
		c.logger.Error("failed to ack message", "event_id", event.ID, "error", err)
	}
}

// Stop cancels the workers and waits for them to exit
func (c *Consumer) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
	c.logger.Info("consumer stopped")
}
