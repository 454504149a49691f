package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadSettings_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_BACKEND", "SYNC_TRANSPORT", "SCAN_SCHEDULE", "WARNING_THRESHOLD", "SYNC_CHANNEL"} {
		t.Setenv(k, "")
	}
	s := LoadSettings()

	assert.Equal(t, "8083", s.Port)
	assert.Equal(t, "memory", s.StoreBackend)
	assert.Equal(t, "local", s.SyncTransport)
	assert.Equal(t, "@every 5s", s.ScanSchedule)
	assert.Equal(t, 5*time.Minute, s.WarningThreshold)
	assert.Equal(t, "gantuangco_sync_channel_v1", s.SyncChannel)
}

func TestLoadSettings_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("WARNING_THRESHOLD", "90s")
	t.Setenv("REPORT_TIMEOUT", "garbage")

	s := LoadSettings()

	assert.Equal(t, "redis", s.StoreBackend)
	assert.Equal(t, 3, s.RedisDB)
	assert.Equal(t, 90*time.Second, s.WarningThreshold)
	assert.Equal(t, 15*time.Second, s.ReportTimeout)
}

func TestSettingsLocation(t *testing.T) {
	assert.Equal(t, time.Local, Settings{Timezone: "Local"}.Location())
	assert.Equal(t, time.Local, Settings{Timezone: "Mars/Olympus"}.Location())
	assert.Equal(t, "UTC", Settings{Timezone: "UTC"}.Location().String())
}

func TestGetEnv_TrimsAndFallsBack(t *testing.T) {
	t.Setenv("PORT", "  9090 ")
	t.Setenv("LOG_LEVEL", "   ")

	assert.Equal(t, "9090", GetEnv("PORT"))
	s := LoadSettings()
	assert.Equal(t, "9090", s.Port)
	assert.Equal(t, "info", s.LogLevel, "blank values use the default")
}
