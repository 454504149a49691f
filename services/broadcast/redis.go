package broadcast

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"occupancy/services/logger"
)

// RedisTransport uses Redis Pub/Sub on a single channel.
type RedisTransport struct {
	rdb     *redis.Client
	channel string
	logger  logger.Logger

	minBackoff time.Duration
	maxBackoff time.Duration
}

func NewRedisTransport(rdb *redis.Client, channel string, log logger.Logger) *RedisTransport {
	if log == nil {
		log = logger.Nop{}
	}
	return &RedisTransport{rdb: rdb, channel: channel, logger: log, minBackoff: time.Second, maxBackoff: 30 * time.Second}
}

func (t *RedisTransport) Name() string { return "redis" }

func (t *RedisTransport) Publish(ctx context.Context, payload []byte) error {
	if err := t.rdb.Publish(ctx, t.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", t.channel, err)
	}
	return nil
}

// Subscribe resubscribes after failures, backing off between attempts.
// It returns only when ctx is done.
func (t *RedisTransport) Subscribe(ctx context.Context, handler Handler) error {
	backoff := t.minBackoff
	for {
		subscribed, err := t.listen(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if subscribed {
			backoff = t.minBackoff
		}
		t.logger.Warn("sync-subscriber: %v; retrying in %s", err, backoff)
		if !sleepCtx(ctx, backoff) {
			return ctx.Err()
		}
		if backoff < t.maxBackoff {
			backoff *= 2
		}
	}
}

// listen runs one subscription. subscribed reports whether the server
// confirmed it before the failure.
func (t *RedisTransport) listen(ctx context.Context, handler Handler) (subscribed bool, err error) {
	ps := t.rdb.Subscribe(ctx, t.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return false, fmt.Errorf("redis subscribe %s: %w", t.channel, err)
	}

	msgs := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return true, ErrClosed
			}
			handler([]byte(msg.Payload))
		}
	}
}

// Close is a no-op; the client is owned by the caller.
func (t *RedisTransport) Close() error { return nil }
