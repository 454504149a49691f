package models

type RoomStatus string

const (
	RoomStatusFree     RoomStatus = "FREE"
	RoomStatusOccupied RoomStatus = "OCCUPIED"
	RoomStatusReserved RoomStatus = "RESERVED"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusFree, RoomStatusOccupied, RoomStatusReserved:
		return true
	}
	return false
}

// RoomStatuses lists every status in display order.
func RoomStatuses() []RoomStatus {
	return []RoomStatus{RoomStatusFree, RoomStatusOccupied, RoomStatusReserved}
}
