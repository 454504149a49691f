package broadcast

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"occupancy/services/logger"
)

// AMQPTransport publishes to a fanout exchange. Every subscriber binds its
// own exclusive, auto-deleted queue, so each instance sees every message.
type AMQPTransport struct {
	url      string
	exchange string
	logger   logger.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel

	maxBackoff  time.Duration
	dialTimeout time.Duration
}

func NewAMQPTransport(url, exchange string, log logger.Logger) *AMQPTransport {
	if log == nil {
		log = logger.Nop{}
	}
	return &AMQPTransport{url: url, exchange: exchange, logger: log, maxBackoff: 30 * time.Second, dialTimeout: 10 * time.Second}
}

func (t *AMQPTransport) Name() string { return "amqp" }

func (t *AMQPTransport) declare(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		t.exchange, // name
		"fanout",   // kind
		true,       // durable
		false,      // autoDelete
		false,      // internal
		false,      // noWait
		nil,        // args
	)
}

// dial connects to the broker. The TCP connect and the AMQP handshake both
// end at ctx's deadline, or after dialTimeout when ctx has none.
func (t *AMQPTransport) dial(ctx context.Context) (*amqp.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(t.dialTimeout)
	}
	return amqp.DialConfig(t.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			d := net.Dialer{Deadline: deadline}
			conn, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			// cleared by amqp091 once the connection is open
			if err := conn.SetDeadline(deadline); err != nil {
				_ = conn.Close()
				return nil, err
			}
			return conn, nil
		},
	})
}

// publishChannel returns the shared publishing channel, dialing if needed.
func (t *AMQPTransport) publishChannel(ctx context.Context) (*amqp.Channel, error) {
	if t.ch != nil && !t.ch.IsClosed() {
		return t.ch, nil
	}
	if t.conn == nil || t.conn.IsClosed() {
		conn, err := t.dial(ctx)
		if err != nil {
			return nil, fmt.Errorf("dial broker: %w", err)
		}
		t.conn = conn
	}
	ch, err := t.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("channel open: %w", err)
	}
	if err := t.declare(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("exchange declare: %w", err)
	}
	t.ch = ch
	return ch, nil
}

func (t *AMQPTransport) Publish(ctx context.Context, payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch, err := t.publishChannel(ctx)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	}
	if err := ch.PublishWithContext(ctx, t.exchange, "", false, false, pub); err != nil {
		_ = ch.Close()
		t.ch = nil
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// Subscribe keeps a consumer alive across broker restarts, backing off
// between dial attempts. It returns only when ctx is done.
func (t *AMQPTransport) Subscribe(ctx context.Context, handler Handler) error {
	backoff := time.Second
	for {
		conn, err := t.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			t.logger.Warn("sync-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < t.maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = t.consumeLoop(ctx, conn, handler)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		t.logger.Warn("sync-consumer: consume loop ended: %v; reconnecting", err)
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (t *AMQPTransport) consumeLoop(ctx context.Context, conn *amqp.Connection, handler Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := t.declare(ch); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", t.exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return stderrors.New("deliveries channel closed")
			}
			handler(d.Body)
		}
	}
}

func (t *AMQPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ch != nil {
		_ = t.ch.Close()
		t.ch = nil
	}
	if t.conn != nil {
		err := t.conn.Close()
		t.conn = nil
		if err != nil && !stderrors.Is(err, amqp.ErrClosed) {
			return err
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
