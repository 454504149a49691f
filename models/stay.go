package models

// StaySpec carries the property specific duration of a check-in.
// Roygan rooms use Days and the check-in/out flags, Sweet Heart rooms use TotalMinutes.
type StaySpec struct {
	Days         int  `json:"days"`
	EarlyCheckIn bool `json:"earlyCheckIn"`
	LateCheckOut bool `json:"lateCheckOut"`
	TotalMinutes int  `json:"totalMinutes"`
}
