package models

// OccupancyStats summarises the live load of one property.
type OccupancyStats struct {
	PropertyID    PropertyID `json:"propertyId"`
	Total         int        `json:"total"`
	Occupied      int        `json:"occupied"`
	Free          int        `json:"free"`
	OccupancyRate float64    `json:"occupancyRate"`
}

func ComputeOccupancy(property PropertyID, rooms []Room) OccupancyStats {
	stats := OccupancyStats{PropertyID: property}
	for _, r := range rooms {
		if r.PropertyID != property {
			continue
		}
		stats.Total++
		if r.IsOccupied() {
			stats.Occupied++
		}
	}
	stats.Free = stats.Total - stats.Occupied
	if stats.Total > 0 {
		stats.OccupancyRate = float64(stats.Occupied) / float64(stats.Total) * 100
	}
	return stats
}
