package models

// DailyStats accumulates booking activity for a single calendar day.
// Checkouts never decrement it: the totals mean "activity occurred today".
type DailyStats struct {
	Date                string             `json:"date"`
	RoyganBookings      int                `json:"royganBookings"`
	RoyganBookedRooms   []string           `json:"royganBookedRooms"`
	SweetheartRoomHours map[string]float64 `json:"sweetheartRoomHours"`
}

func NewDailyStats(date string) DailyStats {
	return DailyStats{
		Date:                date,
		RoyganBookings:      0,
		RoyganBookedRooms:   []string{},
		SweetheartRoomHours: map[string]float64{},
	}
}

func (s DailyStats) Clone() DailyStats {
	out := s
	out.RoyganBookedRooms = append([]string{}, s.RoyganBookedRooms...)
	out.SweetheartRoomHours = make(map[string]float64, len(s.SweetheartRoomHours))
	for k, v := range s.SweetheartRoomHours {
		out.SweetheartRoomHours[k] = v
	}
	return out
}

// RecordRoyganBooking counts a booking and adds the room to the booked set.
func (s *DailyStats) RecordRoyganBooking(roomNumber string) {
	s.RoyganBookings++
	for _, n := range s.RoyganBookedRooms {
		if n == roomNumber {
			return
		}
	}
	s.RoyganBookedRooms = append(s.RoyganBookedRooms, roomNumber)
}

func (s *DailyStats) AddSweetheartHours(roomNumber string, hours float64) {
	if s.SweetheartRoomHours == nil {
		s.SweetheartRoomHours = map[string]float64{}
	}
	s.SweetheartRoomHours[roomNumber] += hours
}

func (s DailyStats) TotalSweetheartHours() float64 {
	total := 0.0
	for _, h := range s.SweetheartRoomHours {
		total += h
	}
	return total
}
