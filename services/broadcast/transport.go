package broadcast

import (
	"context"
	"sync"

	"occupancy/services/logger"
)

// Handler receives one raw payload from the sync channel.
type Handler func(payload []byte)

// Transport moves raw sync payloads between instances. Delivery is
// at-most-once and unordered; a sender may or may not see its own messages.
type Transport interface {
	Name() string
	Publish(ctx context.Context, payload []byte) error
	// Subscribe blocks, delivering payloads to handler until ctx is done.
	Subscribe(ctx context.Context, handler Handler) error
	Close() error
}

// LocalHub connects transports living in one process. Each endpoint has a
// bounded inbox; payloads that do not fit are dropped.
type LocalHub struct {
	mu        sync.RWMutex
	endpoints map[*LocalTransport]struct{}
	logger    logger.Logger
}

func NewLocalHub(log logger.Logger) *LocalHub {
	if log == nil {
		log = logger.Nop{}
	}
	return &LocalHub{endpoints: map[*LocalTransport]struct{}{}, logger: log}
}

// Endpoint attaches a new transport to the hub.
func (h *LocalHub) Endpoint() *LocalTransport {
	t := &LocalTransport{hub: h, inbox: make(chan []byte, 64), done: make(chan struct{})}
	h.mu.Lock()
	h.endpoints[t] = struct{}{}
	h.mu.Unlock()
	return t
}

func (h *LocalHub) deliver(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for t := range h.endpoints {
		select {
		case t.inbox <- append([]byte(nil), payload...):
		default:
			h.logger.Warn("local sync endpoint full, dropping message")
		}
	}
}

type LocalTransport struct {
	hub   *LocalHub
	inbox chan []byte
	once  sync.Once
	done  chan struct{}
}

func (t *LocalTransport) Name() string { return "local" }

func (t *LocalTransport) Publish(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-t.done:
		return ErrClosed
	default:
	}
	t.hub.deliver(payload)
	return nil
}

func (t *LocalTransport) Subscribe(ctx context.Context, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.done:
			return ErrClosed
		case p := <-t.inbox:
			handler(p)
		}
	}
}

func (t *LocalTransport) Close() error {
	t.once.Do(func() {
		t.hub.mu.Lock()
		delete(t.hub.endpoints, t)
		t.hub.mu.Unlock()
		close(t.done)
	})
	return nil
}
