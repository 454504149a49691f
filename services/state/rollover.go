package state

import "occupancy/models"

// rolloverLocked replaces the daily stats when their date is no longer
// today. Prior totals are discarded, never carried forward.
func (c *Container) rolloverLocked() []Change {
	today := c.Today()
	if c.snap.DailyStats.Date == today {
		return nil
	}
	c.logger.Info("Daily stats rollover: %q -> %s", c.snap.DailyStats.Date, today)
	next := models.Snapshot{
		Rooms:      models.CloneRooms(c.snap.Rooms),
		DailyStats: models.NewDailyStats(today),
	}
	return []Change{c.commitLocked(next, SourceRollover)}
}
