package models

// Snapshot is the complete value of rooms and daily stats at one revision.
type Snapshot struct {
	Rooms      []Room     `json:"rooms"`
	DailyStats DailyStats `json:"dailyStats"`
}

func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Rooms:      CloneRooms(s.Rooms),
		DailyStats: s.DailyStats.Clone(),
	}
}

func (s Snapshot) FindRoom(id int) (Room, int, bool) {
	for i, r := range s.Rooms {
		if r.ID == id {
			return r, i, true
		}
	}
	return Room{}, -1, false
}
