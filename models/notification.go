package models

import "fmt"

type NotificationKind string

const (
	NotificationWarning NotificationKind = "warning"
	NotificationExpiry  NotificationKind = "expiry"
)

type Notification struct {
	ID           string           `json:"id"`
	RoomNumber   string           `json:"roomNumber"`
	PropertyName string           `json:"propertyName"`
	Type         NotificationKind `json:"type"`
	Message      string           `json:"message"`
	Timestamp    int64            `json:"timestamp"`
}

func NotificationID(roomID int, kind NotificationKind, emittedAt int64) string {
	return fmt.Sprintf("%d-%s-%d", roomID, kind, emittedAt)
}
