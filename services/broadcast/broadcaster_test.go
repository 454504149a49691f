package broadcast

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"occupancy/commands"
	"occupancy/dto"
	"occupancy/models"
	"occupancy/services/state"
)

var day = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return day }

func seed() models.Snapshot {
	return models.Snapshot{
		Rooms: []models.Room{
			{ID: 1, PropertyID: models.PropertySweetheart, RoomNumber: "1", Status: models.RoomStatusFree},
			{ID: 100, PropertyID: models.PropertyRoygan, RoomNumber: "206", Status: models.RoomStatusFree},
		},
		DailyStats: models.NewDailyStats("2026-10-19"),
	}
}

type instance struct {
	container   *state.Container
	broadcaster *Broadcaster
}

func startInstance(t *testing.T, ctx context.Context, hub *LocalHub, origin string) instance {
	t.Helper()
	c := state.New(seed(), state.Options{Now: fixedNow, Location: time.UTC})
	tr := hub.Endpoint()
	t.Cleanup(func() { _ = tr.Close() })
	b := NewBroadcaster(tr, c, Options{Origin: origin, Now: fixedNow})
	c.Subscribe(func(ch state.Change) {
		if ch.Source == state.SourceLocal {
			require.NoError(t, b.Publish(ctx, ch.Snapshot))
		}
	})
	go func() { _ = b.Run(ctx) }()
	return instance{container: c, broadcaster: b}
}

func TestSyncConvergence(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewLocalHub(nil)
	a := startInstance(t, ctx, hub, "a")
	b := startInstance(t, ctx, hub, "b")

	want, changed, err := a.container.Apply(commands.NewCommitStayCommand(100, "Ana", models.StaySpec{Days: 2}))
	require.NoError(t, err)
	require.True(t, changed)

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(want, b.container.Snapshot())
	}, 2*time.Second, 10*time.Millisecond)

	_, ok := a.broadcaster.LastSync()
	assert.True(t, ok, "sending updates last sync")
	require.Eventually(t, func() bool {
		_, ok := b.broadcaster.LastSync()
		return ok
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, want, a.container.Snapshot(), "sender ignores its own echo")
}

func TestLastWriteWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewLocalHub(nil)
	a := startInstance(t, ctx, hub, "a")
	b := startInstance(t, ctx, hub, "b")

	_, _, err := a.container.Apply(commands.NewReserveCommand(1, "First"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return b.container.Snapshot().Rooms[0].GuestName == "First"
	}, 2*time.Second, 10*time.Millisecond)

	want, _, err := b.container.Apply(commands.NewReserveCommand(1, "Second"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(want, a.container.Snapshot())
	}, 2*time.Second, 10*time.Millisecond)
}

type recordingTarget struct {
	mu    sync.Mutex
	snaps []models.Snapshot
}

func (r *recordingTarget) Replace(snap models.Snapshot, _ state.Source) models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, snap)
	return snap
}

func TestHandle_FiltersMessages(t *testing.T) {
	target := &recordingTarget{}
	var received int
	b := NewBroadcaster(NewLocalHub(nil).Endpoint(), target, Options{
		Origin:    "self",
		Now:       fixedNow,
		OnReceive: func(models.Snapshot) { received++ },
	})

	encode := func(msg dto.SyncMessage) []byte {
		raw, err := json.Marshal(msg)
		require.NoError(t, err)
		return raw
	}
	snap := seed()

	b.handle([]byte("not json"))
	b.handle(encode(dto.SyncMessage{Type: "OTHER", Origin: "peer", Rooms: snap.Rooms, DailyStats: snap.DailyStats}))
	b.handle(encode(dto.SyncMessage{Type: "SYNC_STATE", Origin: "self", Rooms: snap.Rooms, DailyStats: snap.DailyStats}))
	bad := models.CloneRooms(snap.Rooms)
	bad[0].Status = "BROKEN"
	b.handle(encode(dto.SyncMessage{Type: "SYNC_STATE", Origin: "peer", Rooms: bad, DailyStats: snap.DailyStats}))
	assert.Empty(t, target.snaps)
	_, ok := b.LastSync()
	assert.False(t, ok)

	b.handle(encode(dto.SyncMessage{Type: "SYNC_STATE", Origin: "peer", Rooms: snap.Rooms, DailyStats: snap.DailyStats}))
	require.Len(t, target.snaps, 1)
	assert.Equal(t, snap, target.snaps[0])
	assert.Equal(t, 1, received)
	last, ok := b.LastSync()
	assert.True(t, ok)
	assert.Equal(t, day, last)
}

func TestHandle_RejectsEmptyRoomList(t *testing.T) {
	target := &recordingTarget{}
	b := NewBroadcaster(NewLocalHub(nil).Endpoint(), target, Options{Origin: "self", Now: fixedNow})

	b.handle([]byte(`{"type":"SYNC_STATE","origin":"peer","rooms":null,"dailyStats":{"date":"2026-10-19"}}`))
	b.handle([]byte(`{"type":"SYNC_STATE","origin":"peer","rooms":[],"dailyStats":{"date":"2026-10-19"}}`))

	assert.Empty(t, target.snaps)
	_, ok := b.LastSync()
	assert.False(t, ok)
}

func TestPublish_MessageShape(t *testing.T) {
	hub := NewLocalHub(nil)
	sender := hub.Endpoint()
	listener := hub.Endpoint()
	b := NewBroadcaster(sender, &recordingTarget{}, Options{Origin: "a", Now: fixedNow})

	require.NoError(t, b.Publish(context.Background(), seed()))

	raw := <-listener.inbox
	var msg dto.SyncMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "SYNC_STATE", msg.Type)
	assert.Equal(t, "a", msg.Origin)
	assert.Equal(t, day.UnixMilli(), msg.SentAt)
	assert.Equal(t, seed().Rooms, msg.Rooms)
}

func TestPublish_ClosedTransport(t *testing.T) {
	tr := NewLocalHub(nil).Endpoint()
	require.NoError(t, tr.Close())
	b := NewBroadcaster(tr, &recordingTarget{}, Options{})

	err := b.Publish(context.Background(), seed())
	assert.ErrorIs(t, err, ErrClosed)
	assert.NotEmpty(t, b.Origin())
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := NewBroadcaster(NewLocalHub(nil).Endpoint(), &recordingTarget{}, Options{})
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
