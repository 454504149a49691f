package constants

import "time"

// Scan cadence and alert thresholds
const (
	ScanSchedule     = "@every 5s"
	WarningThreshold = 5 * time.Minute
)

// Durable record keys
const (
	RoomsRecordKey      = "gantuangco_rooms_v2"
	DailyStatsRecordKey = "gantuangco_daily_stats_v2"
)

// Sync channel
const (
	SyncChannel     = "gantuangco_sync_channel_v1"
	SyncMessageType = "SYNC_STATE"
)

// View push message types
const (
	ViewMessageState         = "SYNC_STATE"
	ViewMessageNotifications = "NOTIFICATIONS"
)

const (
	DateLayout        = "2006-01-02"
	DefaultGuestName  = "Anonymous Guest"
	DefaultRoomType   = "Other"
	HourlyUnitType    = "Hourly Unit"
	StandardCheckOut  = 12
	LateCheckOutHour  = 14
	DefaultTimezone   = "Local"
	DefaultReportFail = "Could not generate AI insights at the moment."
	EmptyReport       = "Report unavailable at this time."
)
