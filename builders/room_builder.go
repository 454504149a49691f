package builders

import (
	"time"

	"occupancy/models"
)

// RoomBuilder giúp chuyển trạng thái phòng theo từng bước
type RoomBuilder struct {
	room models.Room
}

// NewRoomBuilder starts from a copy of room; the original is never modified.
func NewRoomBuilder(room models.Room) *RoomBuilder {
	return &RoomBuilder{room: room.Clone()}
}

// Free clears every occupancy field.
func (b *RoomBuilder) Free() *RoomBuilder {
	b.room.Status = models.RoomStatusFree
	b.room.GuestName = ""
	b.room.StartTime = nil
	b.room.EndTime = nil
	b.room.EarlyCheckIn = nil
	b.room.LateCheckOut = nil
	return b
}

// Occupied starts a stay for guestName between start and end.
func (b *RoomBuilder) Occupied(guestName string, start, end time.Time) *RoomBuilder {
	b.room.Status = models.RoomStatusOccupied
	b.room.GuestName = guestName
	b.room.StartTime = models.Millis(start)
	b.room.EndTime = models.Millis(end)
	return b
}

// Reserved holds the room for guestName. A reservation carries no stay timestamps.
func (b *RoomBuilder) Reserved(guestName string) *RoomBuilder {
	b.Free()
	b.room.Status = models.RoomStatusReserved
	b.room.GuestName = guestName
	return b
}

// WithStayFlags records the early check-in / late check-out options.
func (b *RoomBuilder) WithStayFlags(earlyCheckIn, lateCheckOut bool) *RoomBuilder {
	b.room.EarlyCheckIn = models.Bool(earlyCheckIn)
	b.room.LateCheckOut = models.Bool(lateCheckOut)
	return b
}

func (b *RoomBuilder) Build() models.Room {
	return b.room
}
