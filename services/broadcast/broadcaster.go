package broadcast

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"occupancy/constants"
	"occupancy/dto"
	"occupancy/errors"
	"occupancy/models"
	"occupancy/services/logger"
	"occupancy/services/state"
)

var ErrClosed = stderrors.New("sync transport closed")

// Replacer is the part of the state container the broadcaster writes to.
type Replacer interface {
	Replace(snap models.Snapshot, src state.Source) models.Snapshot
}

type Options struct {
	Origin string
	Now    func() time.Time
	Logger logger.Logger
	// OnReceive, if set, runs after a remote snapshot has been installed.
	OnReceive func(models.Snapshot)
}

// Broadcaster sends full snapshots to sibling instances and installs the
// ones it receives. The last message wins; there is no merge.
type Broadcaster struct {
	transport Transport
	target    Replacer
	origin    string
	now       func() time.Time
	logger    logger.Logger
	onReceive func(models.Snapshot)

	mu       sync.RWMutex
	lastSync time.Time
}

func NewBroadcaster(t Transport, target Replacer, opts Options) *Broadcaster {
	if opts.Origin == "" {
		opts.Origin = uuid.NewString()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop{}
	}
	return &Broadcaster{
		transport: t,
		target:    target,
		origin:    opts.Origin,
		now:       opts.Now,
		logger:    opts.Logger,
		onReceive: opts.OnReceive,
	}
}

func (b *Broadcaster) Origin() string { return b.origin }

func (b *Broadcaster) TransportName() string { return b.transport.Name() }

// LastSync is the time of the last successful send or accepted receive.
func (b *Broadcaster) LastSync() (time.Time, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastSync, !b.lastSync.IsZero()
}

func (b *Broadcaster) touch() {
	b.mu.Lock()
	b.lastSync = b.now()
	b.mu.Unlock()
}

// Publish sends snap to every other instance.
func (b *Broadcaster) Publish(ctx context.Context, snap models.Snapshot) error {
	payload, err := json.Marshal(dto.SyncMessage{
		Type:       constants.SyncMessageType,
		Origin:     b.origin,
		Rooms:      snap.Rooms,
		DailyStats: snap.DailyStats,
		SentAt:     b.now().UnixMilli(),
	})
	if err != nil {
		return errors.NewAppError(errors.ErrCodeSyncFailed, "encode sync message", err)
	}
	if err := b.transport.Publish(ctx, payload); err != nil {
		return errors.NewAppError(errors.ErrCodeSyncFailed, "publish via "+b.transport.Name(), err)
	}
	b.touch()
	return nil
}

// Run consumes the sync channel until ctx is done.
func (b *Broadcaster) Run(ctx context.Context) error {
	b.logger.Info("Sync broadcaster %s listening on %s transport", b.origin, b.transport.Name())
	err := b.transport.Subscribe(ctx, b.handle)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (b *Broadcaster) handle(payload []byte) {
	snap, ok, err := b.decode(payload)
	if err != nil {
		b.logger.Warn("Dropping sync message: %v", err)
		return
	}
	if !ok {
		return
	}
	installed := b.target.Replace(snap, state.SourceRemote)
	b.touch()
	if b.onReceive != nil {
		b.onReceive(installed)
	}
}

// decode returns ok=false for messages that are not for us: other types and
// our own echoes.
func (b *Broadcaster) decode(payload []byte) (models.Snapshot, bool, error) {
	var msg dto.SyncMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("decode: %w", err)
	}
	if msg.Type != constants.SyncMessageType || msg.Origin == b.origin {
		return models.Snapshot{}, false, nil
	}
	if len(msg.Rooms) == 0 {
		return models.Snapshot{}, false, stderrors.New("snapshot has no rooms")
	}
	for i := range msg.Rooms {
		if err := msg.Rooms[i].ValidateStatus(); err != nil {
			return models.Snapshot{}, false, fmt.Errorf("room %d: %w", msg.Rooms[i].ID, err)
		}
	}
	return models.Snapshot{Rooms: msg.Rooms, DailyStats: msg.DailyStats}, true, nil
}
