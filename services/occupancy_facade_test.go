package services

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"occupancy/errors"
	"occupancy/models"
	"occupancy/services/notification"
	"occupancy/services/state"
	"occupancy/services/store"
)

type fakeSyncer struct {
	mu        sync.Mutex
	published []models.Snapshot
	err       error
}

func (s *fakeSyncer) Publish(_ context.Context, snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, snap)
	return s.err
}

func (s *fakeSyncer) Origin() string        { return "instance-a" }
func (s *fakeSyncer) TransportName() string { return "local" }

func (s *fakeSyncer) LastSync() (time.Time, bool) {
	if len(s.published) == 0 {
		return time.Time{}, false
	}
	return facadeNow, true
}

type fakeViews struct {
	states []models.Snapshot
	alerts [][]models.Notification
}

func (v *fakeViews) PushState(snap models.Snapshot)                { v.states = append(v.states, snap) }
func (v *fakeViews) PushNotifications(batch []models.Notification) { v.alerts = append(v.alerts, batch) }

type fakeReporter struct{ rooms []models.Room }

func (r *fakeReporter) Generate(_ context.Context, rooms []models.Room) string {
	r.rooms = rooms
	return "All quiet."
}

var facadeNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func facadeRooms() []models.Room {
	return []models.Room{
		{ID: 1, PropertyID: models.PropertySweetheart, RoomNumber: "1", Status: models.RoomStatusFree, RoomType: "Hourly Unit"},
		{ID: 2, PropertyID: models.PropertySweetheart, RoomNumber: "10", Status: models.RoomStatusFree, RoomType: "Hourly Unit"},
		{ID: 3, PropertyID: models.PropertySweetheart, RoomNumber: "2", Status: models.RoomStatusFree, RoomType: "Hourly Unit"},
		{ID: 100, PropertyID: models.PropertyRoygan, RoomNumber: "302", Status: models.RoomStatusFree, RoomType: "Single Standard"},
		{ID: 101, PropertyID: models.PropertyRoygan, RoomNumber: "206", Status: models.RoomStatusFree, RoomType: "Single Standard"},
		{ID: 200, PropertyID: models.PropertyRoygan, RoomNumber: "300", Status: models.RoomStatusFree, RoomType: "Single Premier"},
		{ID: 900, PropertyID: models.PropertyRoygan, RoomNumber: "999", Status: models.RoomStatusFree},
	}
}

type facadeFixture struct {
	facade *OccupancyFacade
	kv     *store.MemoryKV
	store  *store.Store
	sync   *fakeSyncer
	views  *fakeViews
	clock  *time.Time
}

func newFacadeFixture(t *testing.T) facadeFixture {
	t.Helper()
	now := facadeNow
	clock := &now
	nowFn := func() time.Time { return *clock }

	kv := store.NewMemoryKV()
	st := store.New(kv, nil)
	container := state.New(models.Snapshot{Rooms: facadeRooms(), DailyStats: models.NewDailyStats("2026-10-19")},
		state.Options{Now: nowFn, Location: time.UTC})
	syncer := &fakeSyncer{}
	views := &fakeViews{}
	f := NewOccupancyFacade(FacadeOptions{
		State:     container,
		Store:     st,
		Sync:      syncer,
		Engine:    notification.NewEngine(5*time.Minute, nowFn),
		Views:     views,
		Reports:   &fakeReporter{},
		TypeOrder: []string{"Single Standard", "Single Premier"},
		Now:       nowFn,
	})
	f.Start()
	t.Cleanup(f.Stop)
	return facadeFixture{facade: f, kv: kv, store: st, sync: syncer, views: views, clock: clock}
}

func TestFacade_MutationPersistsBroadcastsAndPushes(t *testing.T) {
	fx := newFacadeFixture(t)

	room, err := fx.facade.CommitStay("sess-1", 1, "Juan", models.StaySpec{TotalMinutes: 90})
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusOccupied, room.Status)

	persisted := fx.store.LoadInitial(context.Background(), nil, "2026-10-19")
	assert.Equal(t, fx.facade.Snapshot(), persisted)

	require.Len(t, fx.sync.published, 1)
	assert.Equal(t, fx.facade.Snapshot(), fx.sync.published[0])
	require.Len(t, fx.views.states, 1)

	status := fx.facade.SyncStatus()
	assert.Equal(t, "instance-a", status.InstanceID)
	require.NotNil(t, status.LastSyncedAt)
}

func TestFacade_RemoteChangeIsPersistedNotRebroadcast(t *testing.T) {
	fx := newFacadeFixture(t)
	remote := models.Snapshot{Rooms: facadeRooms(), DailyStats: models.NewDailyStats("2026-10-19")}
	remote.Rooms[0].Status = models.RoomStatusReserved
	remote.Rooms[0].GuestName = "Carla"

	fx.facade.state.Replace(remote, state.SourceRemote)

	assert.Empty(t, fx.sync.published)
	assert.Len(t, fx.views.states, 1)
	persisted := fx.store.LoadInitial(context.Background(), nil, "2026-10-19")
	assert.Equal(t, "Carla", persisted.Rooms[0].GuestName)
}

func TestFacade_BroadcastFailureDoesNotFailMutation(t *testing.T) {
	fx := newFacadeFixture(t)
	fx.sync.err = stderrors.New("broker down")

	_, err := fx.facade.Reserve("sess", 100, "Carla")
	assert.NoError(t, err)
	assert.Equal(t, models.RoomStatusReserved, fx.facade.Snapshot().Rooms[3].Status)
}

func TestFacade_UnknownRoom(t *testing.T) {
	fx := newFacadeFixture(t)

	_, err := fx.facade.CheckOut("sess", 4242)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrRoomNotFound))
	assert.Empty(t, fx.sync.published)

	_, err = fx.facade.Room(4242)
	assert.Equal(t, errors.ErrCodeRoomNotFound, errors.GetAppError(err).Code)
}

func TestFacade_InvalidDuration(t *testing.T) {
	fx := newFacadeFixture(t)

	_, err := fx.facade.CommitStay("sess", 100, "Ana", models.StaySpec{Days: 0})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidDuration, errors.GetAppError(err).Code)
	assert.Empty(t, fx.views.states)
}

func TestFacade_ScanAndDismissNotifications(t *testing.T) {
	fx := newFacadeFixture(t)
	_, err := fx.facade.CommitStay("sess", 1, "Juan", models.StaySpec{TotalMinutes: 4})
	require.NoError(t, err)
	_, err = fx.facade.CommitStay("sess", 2, "Ana", models.StaySpec{TotalMinutes: 3})
	require.NoError(t, err)

	first := fx.facade.ScanNotifications()
	require.Len(t, first, 2)
	assert.Nil(t, fx.facade.ScanNotifications())

	*fx.clock = facadeNow.Add(10 * time.Minute)
	second := fx.facade.ScanNotifications()
	require.Len(t, second, 2)

	list := fx.facade.Notifications()
	require.Len(t, list, 4)
	assert.Equal(t, second[0].ID, list[0].ID, "newest batch first")
	assert.Equal(t, models.NotificationExpiry, list[0].Type)
	assert.Len(t, fx.views.alerts, 2)

	require.NoError(t, fx.facade.DismissNotification(list[0].ID))
	err = fx.facade.DismissNotification(list[0].ID)
	assert.Equal(t, errors.ErrCodeNotificationNotFound, errors.GetAppError(err).Code)
	assert.Equal(t, 3, fx.facade.DismissAllNotifications())
	assert.Empty(t, fx.facade.Notifications())
}

func TestFacade_GroupedRooms(t *testing.T) {
	fx := newFacadeFixture(t)

	hourly := fx.facade.GroupedRooms(models.PropertySweetheart)
	require.Len(t, hourly, 1)
	assert.Equal(t, "Hourly Unit", hourly[0].Type)
	var numbers []string
	for _, r := range hourly[0].Rooms {
		numbers = append(numbers, r.RoomNumber)
	}
	assert.Equal(t, []string{"1", "2", "10"}, numbers)

	nightly := fx.facade.GroupedRooms(models.PropertyRoygan)
	require.Len(t, nightly, 3)
	assert.Equal(t, "Single Standard", nightly[0].Type)
	assert.Equal(t, "206", nightly[0].Rooms[0].RoomNumber)
	assert.Equal(t, "Single Premier", nightly[1].Type)
	assert.Equal(t, "Other", nightly[2].Type)
}

func TestFacade_RoomsFilterAndOccupancy(t *testing.T) {
	fx := newFacadeFixture(t)
	_, err := fx.facade.CommitStay("sess", 100, "Ana", models.StaySpec{Days: 1})
	require.NoError(t, err)

	assert.Len(t, fx.facade.Rooms("", ""), 7)
	assert.Len(t, fx.facade.Rooms(models.PropertyRoygan, ""), 4)
	assert.Len(t, fx.facade.Rooms(models.PropertyRoygan, "Other"), 1)

	occ := fx.facade.Occupancy(models.PropertyRoygan)
	assert.Equal(t, models.OccupancyStats{PropertyID: models.PropertyRoygan, Total: 4, Occupied: 1, Free: 3, OccupancyRate: 25}, occ)

	report := fx.facade.DailyReport()
	assert.Equal(t, 1, report.RoyganBookings)
	assert.Equal(t, []string{"302"}, report.RoyganBookedRooms)
}

func TestFacade_Report(t *testing.T) {
	fx := newFacadeFixture(t)
	reporter := fx.facade.reports.(*fakeReporter)

	resp := fx.facade.Report(context.Background(), models.PropertyRoygan)

	assert.Equal(t, "All quiet.", resp.Summary)
	assert.Equal(t, "Roygan Hotel", resp.PropertyName)
	assert.Equal(t, facadeNow.UnixMilli(), resp.GeneratedAt)
	assert.Len(t, reporter.rooms, 4)
}

func TestFacade_RolloverIsPersistedNotBroadcast(t *testing.T) {
	fx := newFacadeFixture(t)
	_, err := fx.facade.CommitStay("sess", 100, "Ana", models.StaySpec{Days: 1})
	require.NoError(t, err)
	require.Len(t, fx.sync.published, 1)

	*fx.clock = facadeNow.Add(24 * time.Hour)
	stats := fx.facade.DailyStats()

	assert.Equal(t, models.NewDailyStats("2026-10-20"), stats)
	assert.Len(t, fx.sync.published, 1, "rollover is not broadcast")
	assert.Len(t, fx.views.states, 2)
	persisted, err := fx.store.LoadDailyStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-10-20", persisted.Date)
	assert.Zero(t, persisted.RoyganBookings)
	assert.Equal(t, models.RoomStatusOccupied, fx.facade.Snapshot().Rooms[3].Status, "rooms survive the rollover")
}
