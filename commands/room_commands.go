package commands

import (
	"fmt"
	"strings"
	"time"

	"occupancy/builders"
	"occupancy/constants"
	"occupancy/errors"
	"occupancy/models"
)

// Clock is the instant and zone a command is evaluated in.
type Clock struct {
	Now      time.Time
	Location *time.Location
}

func (c Clock) local() time.Time {
	if c.Location == nil {
		return c.Now
	}
	return c.Now.In(c.Location)
}

// RoomCommand định nghĩa interface cho các thao tác trên một phòng.
// Execute must be pure: it receives copies and returns the new room value.
type RoomCommand interface {
	Name() string
	RoomID() int
	Validate(room models.Room) error
	Execute(room models.Room, stats *models.DailyStats, clock Clock) models.Room
}

// CommitStayCommand checks a guest in, or updates the stay of an occupied room.
type CommitStayCommand struct {
	roomID    int
	guestName string
	spec      models.StaySpec
}

func NewCommitStayCommand(roomID int, guestName string, spec models.StaySpec) *CommitStayCommand {
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		guestName = constants.DefaultGuestName
	}
	return &CommitStayCommand{roomID: roomID, guestName: guestName, spec: spec}
}

func (c *CommitStayCommand) Name() string { return "commit_stay" }
func (c *CommitStayCommand) RoomID() int  { return c.roomID }

// Validate rejects negative durations, and non-positive ones on a fresh check-in.
// Editing an occupied Sweet Heart room with zero minutes is how a stay is cancelled.
func (c *CommitStayCommand) Validate(room models.Room) error {
	editing := room.IsOccupied()
	switch room.PropertyID {
	case models.PropertyRoygan:
		if c.spec.Days < 0 || (!editing && c.spec.Days <= 0) {
			return errors.NewAppError(errors.ErrCodeInvalidDuration,
				fmt.Sprintf("room %s: stay must be at least one night", room.RoomNumber), errors.ErrInvalidDuration)
		}
	case models.PropertySweetheart:
		if !editing && c.spec.TotalMinutes <= 0 {
			return errors.NewAppError(errors.ErrCodeInvalidDuration,
				fmt.Sprintf("room %s: please enter a valid stay duration", room.RoomNumber), errors.ErrInvalidDuration)
		}
	default:
		return errors.NewAppError(errors.ErrCodeInvalidProperty,
			fmt.Sprintf("room %d belongs to unknown property %q", room.ID, room.PropertyID), errors.ErrInvalidInput)
	}
	return nil
}

func (c *CommitStayCommand) Execute(room models.Room, stats *models.DailyStats, clock Clock) models.Room {
	if room.PropertyID == models.PropertyRoygan {
		return c.executeNightly(room, stats, clock)
	}
	return c.executeHourly(room, stats, clock)
}

func (c *CommitStayCommand) executeNightly(room models.Room, stats *models.DailyStats, clock Clock) models.Room {
	checkOut := NightlyCheckOut(clock, c.spec.Days, c.spec.LateCheckOut)
	if !room.IsOccupied() {
		stats.RecordRoyganBooking(room.RoomNumber)
	}
	return builders.NewRoomBuilder(room).
		Occupied(c.guestName, clock.Now, checkOut).
		WithStayFlags(c.spec.EarlyCheckIn, c.spec.LateCheckOut).
		Build()
}

func (c *CommitStayCommand) executeHourly(room models.Room, stats *models.DailyStats, clock Clock) models.Room {
	if c.spec.TotalMinutes <= 0 {
		return builders.NewRoomBuilder(room).Free().Build()
	}
	stats.AddSweetheartHours(room.RoomNumber, float64(c.spec.TotalMinutes)/60)
	end := clock.Now.Add(time.Duration(c.spec.TotalMinutes) * time.Minute)
	return builders.NewRoomBuilder(room).Occupied(c.guestName, clock.Now, end).Build()
}

// NightlyCheckOut is today+days at 12:00 local time, or 14:00 with late check-out.
func NightlyCheckOut(clock Clock, days int, lateCheckOut bool) time.Time {
	local := clock.local()
	hour := constants.StandardCheckOut
	if lateCheckOut {
		hour = constants.LateCheckOutHour
	}
	d := local.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, local.Location())
}

// ReserveCommand holds a room for a guest without starting a stay.
type ReserveCommand struct {
	roomID    int
	guestName string
}

func NewReserveCommand(roomID int, guestName string) *ReserveCommand {
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		guestName = constants.DefaultGuestName
	}
	return &ReserveCommand{roomID: roomID, guestName: guestName}
}

func (c *ReserveCommand) Name() string               { return "reserve" }
func (c *ReserveCommand) RoomID() int                { return c.roomID }
func (c *ReserveCommand) Validate(models.Room) error { return nil }

func (c *ReserveCommand) Execute(room models.Room, _ *models.DailyStats, _ Clock) models.Room {
	return builders.NewRoomBuilder(room).Reserved(c.guestName).Build()
}

// CheckOutCommand frees a room. Daily stats are left alone.
type CheckOutCommand struct {
	roomID int
}

func NewCheckOutCommand(roomID int) *CheckOutCommand {
	return &CheckOutCommand{roomID: roomID}
}

func (c *CheckOutCommand) Name() string               { return "check_out" }
func (c *CheckOutCommand) RoomID() int                { return c.roomID }
func (c *CheckOutCommand) Validate(models.Room) error { return nil }

func (c *CheckOutCommand) Execute(room models.Room, _ *models.DailyStats, _ Clock) models.Room {
	return builders.NewRoomBuilder(room).Free().Build()
}
