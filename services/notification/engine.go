package notification

import (
	"fmt"
	"math"
	"sync"
	"time"

	"occupancy/constants"
	"occupancy/models"
)

const expiryMessage = "The stay for this room has expired."

// roomFlags is the alert state of one occupancy period. oneHour is kept for
// a future one-hour tier and is never set today.
type roomFlags struct {
	warning bool
	expiry  bool
	oneHour bool

	start int64
	end   int64
}

// Engine raises at most one warning and one expiry alert per occupancy
// period. Its flag table lives in memory only.
type Engine struct {
	mu        sync.Mutex
	flags     map[int]*roomFlags
	threshold time.Duration
	now       func() time.Time
}

func NewEngine(threshold time.Duration, now func() time.Time) *Engine {
	if threshold <= 0 {
		threshold = constants.WarningThreshold
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{flags: map[int]*roomFlags{}, threshold: threshold, now: now}
}

// Scan inspects rooms once and returns the alerts raised by this tick in
// room order. It never mutates rooms.
func (e *Engine) Scan(rooms []models.Room) []models.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	nowMs := now.UnixMilli()
	var out []models.Notification
	seen := make(map[int]bool, len(rooms))

	for _, room := range rooms {
		seen[room.ID] = true
		if !room.IsOccupied() {
			delete(e.flags, room.ID)
			continue
		}
		if room.EndTime == nil {
			continue
		}

		f := e.flagsFor(room)
		remaining := *room.EndTime - nowMs
		switch {
		case remaining <= 0 && !f.expiry:
			out = append(out, e.build(room, models.NotificationExpiry, expiryMessage, nowMs))
			f.expiry = true
		case remaining > 0 && remaining <= e.threshold.Milliseconds() && !f.warning:
			out = append(out, e.build(room, models.NotificationWarning, e.warningMessage(), nowMs))
			f.warning = true
		}
	}

	for id := range e.flags {
		if !seen[id] {
			delete(e.flags, id)
		}
	}
	return out
}

// flagsFor returns the flags of the room's current period, starting a new
// period when its timestamps changed.
func (e *Engine) flagsFor(room models.Room) *roomFlags {
	var start int64
	if room.StartTime != nil {
		start = *room.StartTime
	}
	end := *room.EndTime

	f, ok := e.flags[room.ID]
	if !ok || f.start != start || f.end != end {
		f = &roomFlags{start: start, end: end}
		e.flags[room.ID] = f
	}
	return f
}

func (e *Engine) warningMessage() string {
	minutes := int(math.Round(e.threshold.Minutes()))
	if minutes == 1 {
		return "Only 1 minute remaining for this guest."
	}
	return fmt.Sprintf("Only %d minutes remaining for this guest.", minutes)
}

func (e *Engine) build(room models.Room, kind models.NotificationKind, msg string, nowMs int64) models.Notification {
	return models.Notification{
		ID:           models.NotificationID(room.ID, kind, nowMs),
		RoomNumber:   room.RoomNumber,
		PropertyName: room.PropertyID.DisplayName(),
		Type:         kind,
		Message:      msg,
		Timestamp:    nowMs,
	}
}

// Tracked is the number of rooms with live flags.
func (e *Engine) Tracked() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.flags)
}
