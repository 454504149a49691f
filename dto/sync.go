package dto

import "occupancy/models"

// SyncMessage carries a full snapshot between instances. Origin is the
// sending instance, so a receiver can drop its own echoes.
type SyncMessage struct {
	Type       string            `json:"type"`
	Origin     string            `json:"origin,omitempty"`
	Rooms      []models.Room     `json:"rooms"`
	DailyStats models.DailyStats `json:"dailyStats"`
	SentAt     int64             `json:"sentAt"`
}

// SyncStatusResponse is returned by GET /sync.
type SyncStatusResponse struct {
	InstanceID   string `json:"instanceId"`
	Transport    string `json:"transport"`
	LastSyncedAt *int64 `json:"lastSyncedAt"`
}
