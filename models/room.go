package models

import (
	"fmt"
	"time"
)

type Room struct {
	ID           int        `json:"id"`
	PropertyID   PropertyID `json:"propertyId"`
	RoomNumber   string     `json:"roomNumber"`
	Status       RoomStatus `json:"status"`
	RoomType     string     `json:"roomType,omitempty"`
	GuestName    string     `json:"guestName,omitempty"`
	StartTime    *int64     `json:"startTime,omitempty"`
	EndTime      *int64     `json:"endTime,omitempty"`
	EarlyCheckIn *bool      `json:"earlyCheckIn,omitempty"`
	LateCheckOut *bool      `json:"lateCheckOut,omitempty"`
}

func (r *Room) ValidateStatus() error {
	if !r.Status.Valid() {
		return fmt.Errorf("invalid status: %q, must be one of FREE, OCCUPIED, RESERVED", r.Status)
	}
	return nil
}

// Clone returns a copy that shares no pointers with r.
func (r Room) Clone() Room {
	out := r
	out.StartTime = cloneInt64(r.StartTime)
	out.EndTime = cloneInt64(r.EndTime)
	out.EarlyCheckIn = cloneBool(r.EarlyCheckIn)
	out.LateCheckOut = cloneBool(r.LateCheckOut)
	return out
}

func (r Room) IsOccupied() bool {
	return r.Status == RoomStatusOccupied
}

// EndsAt reports the stay expiry instant, if the room has one.
func (r Room) EndsAt() (time.Time, bool) {
	if r.EndTime == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*r.EndTime), true
}

// Remaining is the time left until the stay expires, zero when there is no stay.
func (r Room) Remaining(now time.Time) time.Duration {
	end, ok := r.EndsAt()
	if !ok {
		return 0
	}
	if d := end.Sub(now); d > 0 {
		return d
	}
	return 0
}

func CloneRooms(rooms []Room) []Room {
	if rooms == nil {
		return nil
	}
	out := make([]Room, len(rooms))
	for i, r := range rooms {
		out[i] = r.Clone()
	}
	return out
}

func Millis(t time.Time) *int64 {
	ms := t.UnixMilli()
	return &ms
}

func Bool(b bool) *bool {
	return &b
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
