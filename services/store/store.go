package store

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/goccy/go-json"

	"occupancy/constants"
	"occupancy/errors"
	"occupancy/models"
	"occupancy/services/logger"
)

// Store persists the room list and the daily-stats record as two named
// JSON records.
type Store struct {
	kv     KV
	logger logger.Logger
}

func New(kv KV, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop{}
	}
	return &Store{kv: kv, logger: log}
}

// Save writes both records. The room list is written first.
func (s *Store) Save(ctx context.Context, snap models.Snapshot) error {
	rooms, err := json.Marshal(snap.Rooms)
	if err != nil {
		return errors.NewAppError(errors.ErrCodeStoreError, "encode rooms", err)
	}
	stats, err := json.Marshal(snap.DailyStats)
	if err != nil {
		return errors.NewAppError(errors.ErrCodeStoreError, "encode daily stats", err)
	}
	if err := s.kv.Set(ctx, constants.RoomsRecordKey, rooms); err != nil {
		return errors.NewAppError(errors.ErrCodeStoreError, "write rooms", err)
	}
	if err := s.kv.Set(ctx, constants.DailyStatsRecordKey, stats); err != nil {
		return errors.NewAppError(errors.ErrCodeStoreError, "write daily stats", err)
	}
	return nil
}

// LoadRooms returns the stored room list. Absent data is errors.ErrNotFound;
// undecodable or invalid data is a CORRUPT_STATE AppError.
func (s *Store) LoadRooms(ctx context.Context) ([]models.Room, error) {
	raw, err := s.kv.Get(ctx, constants.RoomsRecordKey)
	if err != nil {
		return nil, err
	}
	var rooms []models.Room
	if err := json.Unmarshal(raw, &rooms); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeCorruptState, "decode rooms", err)
	}
	seen := make(map[int]bool, len(rooms))
	for i := range rooms {
		if err := rooms[i].ValidateStatus(); err != nil {
			return nil, errors.NewAppError(errors.ErrCodeCorruptState, fmt.Sprintf("room %d", rooms[i].ID), err)
		}
		if seen[rooms[i].ID] {
			return nil, errors.NewAppError(errors.ErrCodeCorruptState, fmt.Sprintf("room id %d repeated", rooms[i].ID), nil)
		}
		seen[rooms[i].ID] = true
	}
	return rooms, nil
}

// LoadDailyStats returns the stored daily-stats record.
func (s *Store) LoadDailyStats(ctx context.Context) (models.DailyStats, error) {
	raw, err := s.kv.Get(ctx, constants.DailyStatsRecordKey)
	if err != nil {
		return models.DailyStats{}, err
	}
	var stats models.DailyStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return models.DailyStats{}, errors.NewAppError(errors.ErrCodeCorruptState, "decode daily stats", err)
	}
	if stats.RoyganBookedRooms == nil {
		stats.RoyganBookedRooms = []string{}
	}
	if stats.SweetheartRoomHours == nil {
		stats.SweetheartRoomHours = map[string]float64{}
	}
	return stats, nil
}

// LoadInitial reads the startup snapshot. It never fails: absent, empty or
// corrupt rooms fall back to catalog, and absent, corrupt or stale stats
// fall back to a fresh record for today.
func (s *Store) LoadInitial(ctx context.Context, catalog []models.Room, today string) models.Snapshot {
	snap := models.Snapshot{DailyStats: models.NewDailyStats(today)}

	rooms, err := s.LoadRooms(ctx)
	switch {
	case stderrors.Is(err, errors.ErrNotFound):
		s.logger.Info("No stored rooms, seeding %d rooms from catalog", len(catalog))
		rooms = nil
	case err != nil:
		s.logger.Warn("Stored rooms unusable, seeding from catalog: %v", err)
		rooms = nil
	case len(rooms) == 0:
		s.logger.Info("Stored room list is empty, seeding from catalog")
	}
	if len(rooms) == 0 {
		rooms = models.CloneRooms(catalog)
	}
	snap.Rooms = rooms

	stats, err := s.LoadDailyStats(ctx)
	switch {
	case stderrors.Is(err, errors.ErrNotFound):
	case err != nil:
		s.logger.Warn("Stored daily stats unusable, starting fresh: %v", err)
	case stats.Date != today:
		s.logger.Info("Stored daily stats are for %s, starting fresh for %s", stats.Date, today)
	default:
		snap.DailyStats = stats
	}
	return snap
}
