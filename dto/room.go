package dto

import "occupancy/models"

// CommitStayRequest is the body of PUT /rooms/:id/stay.
// Nightly rooms read Days and the flags. Hourly rooms read TotalMinutes, or
// Days/Hours/Minutes summed when TotalMinutes is absent.
type CommitStayRequest struct {
	GuestName    string `json:"guestName" validate:"max=120"`
	Days         int    `json:"days" validate:"lte=365"`
	Hours        int    `json:"hours" validate:"gte=0,lte=23"`
	Minutes      int    `json:"minutes" validate:"gte=0,lte=59"`
	TotalMinutes *int   `json:"totalMinutes,omitempty" validate:"omitempty,lte=525600"`
	EarlyCheckIn bool   `json:"earlyCheckIn"`
	LateCheckOut bool   `json:"lateCheckOut"`
}

// StaySpec converts the request for a room of the given property.
func (r CommitStayRequest) StaySpec(property models.PropertyID) models.StaySpec {
	if property == models.PropertyRoygan {
		return models.StaySpec{Days: r.Days, EarlyCheckIn: r.EarlyCheckIn, LateCheckOut: r.LateCheckOut}
	}
	total := r.Days*24*60 + r.Hours*60 + r.Minutes
	if r.TotalMinutes != nil {
		total = *r.TotalMinutes
	}
	return models.StaySpec{TotalMinutes: total}
}

// ReserveRequest is the body of PUT /rooms/:id/reserve.
type ReserveRequest struct {
	GuestName string `json:"guestName" validate:"max=120"`
}

// RoomGroup is one room type and its rooms, sorted by room number.
type RoomGroup struct {
	Type  string        `json:"type"`
	Rooms []models.Room `json:"rooms"`
}

// RoomQuery filters GET /rooms.
type RoomQuery struct {
	Property string `form:"property" validate:"omitempty,oneof=sweetheart roygan"`
	Type     string `form:"type" validate:"max=120"`
}
