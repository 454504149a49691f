package jobs

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"occupancy/models"
	"occupancy/services/logger"
)

// NotificationScanner runs one alert tick.
type NotificationScanner interface {
	ScanNotifications() []models.Notification
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron, scanner NotificationScanner, schedule string, log logger.Logger) error {
	if scanner == nil {
		return fmt.Errorf("notification scanner is nil")
	}
	// Quét phòng đang có khách để phát cảnh báo sắp hết giờ / hết giờ
	_, err := c.AddJob(schedule, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		if batch := scanner.ScanNotifications(); len(batch) > 0 {
			log.Debug("Notification scan raised %d alert(s)", len(batch))
		}
	})))
	if err != nil {
		return fmt.Errorf("schedule notification scan %q: %w", schedule, err)
	}

	c.Start()
	log.Info("Cron jobs initialized successfully")
	return nil
}
