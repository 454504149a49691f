package dto

import "occupancy/models"

// DailyReportResponse is the daily activity report.
type DailyReportResponse struct {
	Date                 string             `json:"date"`
	RoyganBookings       int                `json:"royganBookings"`
	RoyganBookedRooms    []string           `json:"royganBookedRooms"`
	SweetheartRoomHours  map[string]float64 `json:"sweetheartRoomHours"`
	TotalSweetheartHours float64            `json:"totalSweetheartHours"`
}

func NewDailyReportResponse(s models.DailyStats) DailyReportResponse {
	return DailyReportResponse{
		Date:                 s.Date,
		RoyganBookings:       s.RoyganBookings,
		RoyganBookedRooms:    s.RoyganBookedRooms,
		SweetheartRoomHours:  s.SweetheartRoomHours,
		TotalSweetheartHours: s.TotalSweetheartHours(),
	}
}

// ReportResponse carries the AI executive summary for a property.
type ReportResponse struct {
	Property     models.PropertyID `json:"property"`
	PropertyName string            `json:"propertyName"`
	Summary      string            `json:"summary"`
	GeneratedAt  int64             `json:"generatedAt"`
}
