package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"occupancy/commands"
	"occupancy/constants"
	"occupancy/dto"
	"occupancy/errors"
	"occupancy/metrics"
	"occupancy/models"
	"occupancy/services/logger"
	"occupancy/services/notification"
	"occupancy/services/state"
	"occupancy/services/store"
)

// Syncer is the sync broadcaster as seen by the facade.
type Syncer interface {
	Publish(ctx context.Context, snap models.Snapshot) error
	Origin() string
	TransportName() string
	LastSync() (time.Time, bool)
}

type Views interface {
	PushState(snap models.Snapshot)
	PushNotifications(batch []models.Notification)
}

type Reporter interface {
	Generate(ctx context.Context, rooms []models.Room) string
}

type FacadeOptions struct {
	State     *state.Container
	Store     *store.Store
	Sync      Syncer
	Engine    *notification.Engine
	Inbox     *notification.Inbox
	Views     Views
	Reports   Reporter
	TypeOrder []string
	Logger    logger.Logger
	Now       func() time.Time
	// IOTimeout bounds each store write and sync publish.
	IOTimeout time.Duration
}

// OccupancyFacade đơn giản hóa việc tương tác với các service.
// Every state revision is persisted, local ones are broadcast, and all of
// them are pushed to open views.
type OccupancyFacade struct {
	state     *state.Container
	store     *store.Store
	sync      Syncer
	engine    *notification.Engine
	inbox     *notification.Inbox
	views     Views
	reports   Reporter
	typeOrder []string
	logger    logger.Logger
	now       func() time.Time
	ioTimeout time.Duration

	unsubscribe func()
}

func NewOccupancyFacade(opts FacadeOptions) *OccupancyFacade {
	if opts.Logger == nil {
		opts.Logger = logger.Nop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IOTimeout <= 0 {
		opts.IOTimeout = 5 * time.Second
	}
	if opts.Engine == nil {
		opts.Engine = notification.NewEngine(constants.WarningThreshold, nil)
	}
	if opts.Inbox == nil {
		opts.Inbox = notification.NewInbox()
	}
	return &OccupancyFacade{
		state:     opts.State,
		store:     opts.Store,
		sync:      opts.Sync,
		engine:    opts.Engine,
		inbox:     opts.Inbox,
		views:     opts.Views,
		reports:   opts.Reports,
		typeOrder: opts.TypeOrder,
		logger:    opts.Logger,
		now:       opts.Now,
		ioTimeout: opts.IOTimeout,
	}
}

// Start hooks the facade to state changes.
func (f *OccupancyFacade) Start() {
	if f.unsubscribe != nil {
		return
	}
	f.unsubscribe = f.state.Subscribe(f.onChange)
	f.updateRoomGauges(f.state.Snapshot().Rooms)
}

func (f *OccupancyFacade) Stop() {
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
}

func (f *OccupancyFacade) onChange(ch state.Change) {
	metrics.IncStateChange(ch.Source.String())
	ctx, cancel := context.WithTimeout(context.Background(), f.ioTimeout)
	defer cancel()

	if f.store != nil {
		err := f.store.Save(ctx, ch.Snapshot)
		metrics.ObserveStoreWrite(err)
		if err != nil {
			f.logger.Error("Persist revision %d (%s): %v", ch.Revision, ch.Source, err)
		}
	}
	if ch.Source == state.SourceLocal && f.sync != nil {
		err := f.sync.Publish(ctx, ch.Snapshot)
		metrics.ObserveSync("out", err)
		if err != nil {
			f.logger.Error("Broadcast revision %d: %v", ch.Revision, err)
		}
	}
	f.updateRoomGauges(ch.Snapshot.Rooms)
	if f.views != nil {
		f.views.PushState(ch.Snapshot)
	}
}

func (f *OccupancyFacade) updateRoomGauges(rooms []models.Room) {
	for _, p := range models.Properties() {
		counts := map[models.RoomStatus]int{}
		for _, r := range rooms {
			if r.PropertyID == p {
				counts[r.Status]++
			}
		}
		for _, s := range models.RoomStatuses() {
			metrics.SetRooms(string(p), string(s), counts[s])
		}
	}
}

func (f *OccupancyFacade) apply(sessionID string, cmd commands.RoomCommand) (models.Room, error) {
	snap, changed, err := f.state.Apply(cmd)
	metrics.ObserveMutation(cmd.Name(), err)
	if err != nil {
		f.logger.Warn("[%s] %s room %d rejected: %v", sessionID, cmd.Name(), cmd.RoomID(), err)
		return models.Room{}, err
	}
	if !changed {
		return models.Room{}, errors.NewAppError(errors.ErrCodeRoomNotFound,
			fmt.Sprintf("room %d not found", cmd.RoomID()), errors.ErrRoomNotFound)
	}
	room, _, _ := snap.FindRoom(cmd.RoomID())
	f.logger.Info("[%s] %s room %s (%s) -> %s", sessionID, cmd.Name(), room.RoomNumber, room.PropertyID, room.Status)
	return room, nil
}

// CommitStay checks a guest in or updates the current stay.
func (f *OccupancyFacade) CommitStay(sessionID string, roomID int, guestName string, spec models.StaySpec) (models.Room, error) {
	return f.apply(sessionID, commands.NewCommitStayCommand(roomID, guestName, spec))
}

func (f *OccupancyFacade) Reserve(sessionID string, roomID int, guestName string) (models.Room, error) {
	return f.apply(sessionID, commands.NewReserveCommand(roomID, guestName))
}

func (f *OccupancyFacade) CheckOut(sessionID string, roomID int) (models.Room, error) {
	return f.apply(sessionID, commands.NewCheckOutCommand(roomID))
}

// ScanNotifications runs one alert tick and returns the new alerts.
func (f *OccupancyFacade) ScanNotifications() []models.Notification {
	batch := f.engine.Scan(f.state.Snapshot().Rooms)
	if len(batch) == 0 {
		return nil
	}
	for _, n := range batch {
		metrics.AddNotifications(string(n.Type), 1)
		f.logger.Info("Alert %s: room %s at %s", n.Type, n.RoomNumber, n.PropertyName)
	}
	f.inbox.Prepend(batch)
	if f.views != nil {
		f.views.PushNotifications(batch)
	}
	return batch
}

func (f *OccupancyFacade) Notifications() []models.Notification {
	return f.inbox.List()
}

func (f *OccupancyFacade) DismissNotification(id string) error {
	if !f.inbox.Dismiss(id) {
		return errors.NewAppError(errors.ErrCodeNotificationNotFound,
			fmt.Sprintf("notification %q not found", id), errors.ErrNotFound)
	}
	return nil
}

func (f *OccupancyFacade) DismissAllNotifications() int {
	return f.inbox.DismissAll()
}

func (f *OccupancyFacade) Snapshot() models.Snapshot {
	return f.state.Snapshot()
}

// Rooms lists rooms, optionally narrowed to a property and a room type.
func (f *OccupancyFacade) Rooms(property models.PropertyID, roomType string) []models.Room {
	all := f.state.Snapshot().Rooms
	out := make([]models.Room, 0, len(all))
	for _, r := range all {
		if property != "" && r.PropertyID != property {
			continue
		}
		if roomType != "" && typeOf(r) != roomType {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (f *OccupancyFacade) Room(id int) (models.Room, error) {
	room, _, ok := f.state.Snapshot().FindRoom(id)
	if !ok {
		return models.Room{}, errors.NewAppError(errors.ErrCodeRoomNotFound,
			fmt.Sprintf("room %d not found", id), errors.ErrRoomNotFound)
	}
	return room, nil
}

func typeOf(r models.Room) string {
	if r.RoomType == "" {
		return constants.DefaultRoomType
	}
	return r.RoomType
}

// GroupedRooms groups a property's rooms by type, each group sorted by room
// number. Nightly groups follow catalog order; other groups keep the order
// their first room appears in.
func (f *OccupancyFacade) GroupedRooms(property models.PropertyID) []dto.RoomGroup {
	var groups []dto.RoomGroup
	index := map[string]int{}
	for _, r := range f.Rooms(property, "") {
		t := typeOf(r)
		i, ok := index[t]
		if !ok {
			i = len(groups)
			index[t] = i
			groups = append(groups, dto.RoomGroup{Type: t})
		}
		groups[i].Rooms = append(groups[i].Rooms, r)
	}
	for _, g := range groups {
		sort.SliceStable(g.Rooms, func(a, b int) bool {
			return lessRoomNumber(g.Rooms[a].RoomNumber, g.Rooms[b].RoomNumber)
		})
	}
	if property == models.PropertyRoygan && len(f.typeOrder) > 0 {
		rank := make(map[string]int, len(f.typeOrder))
		for i, t := range f.typeOrder {
			rank[t] = i
		}
		sort.SliceStable(groups, func(a, b int) bool {
			ra, oka := rank[groups[a].Type]
			rb, okb := rank[groups[b].Type]
			switch {
			case oka && okb:
				return ra < rb
			default:
				return oka && !okb
			}
		})
	}
	return groups
}

func lessRoomNumber(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

func (f *OccupancyFacade) DailyStats() models.DailyStats {
	return f.state.Snapshot().DailyStats
}

func (f *OccupancyFacade) DailyReport() dto.DailyReportResponse {
	return dto.NewDailyReportResponse(f.DailyStats())
}

func (f *OccupancyFacade) Occupancy(property models.PropertyID) models.OccupancyStats {
	return models.ComputeOccupancy(property, f.state.Snapshot().Rooms)
}

// Report asks the report generator for a summary of one property.
func (f *OccupancyFacade) Report(ctx context.Context, property models.PropertyID) dto.ReportResponse {
	summary := constants.DefaultReportFail
	if f.reports != nil {
		summary = f.reports.Generate(ctx, f.Rooms(property, ""))
	}
	return dto.ReportResponse{
		Property:     property,
		PropertyName: property.DisplayName(),
		Summary:      summary,
		GeneratedAt:  f.now().UnixMilli(),
	}
}

func (f *OccupancyFacade) SyncStatus() dto.SyncStatusResponse {
	if f.sync == nil {
		return dto.SyncStatusResponse{Transport: "none"}
	}
	out := dto.SyncStatusResponse{InstanceID: f.sync.Origin(), Transport: f.sync.TransportName()}
	if t, ok := f.sync.LastSync(); ok {
		ms := t.UnixMilli()
		out.LastSyncedAt = &ms
	}
	return out
}
