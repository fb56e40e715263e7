package repository

import (
	"context"
	"sync/atomic"
	"time"

	"roomdesk/internal/domain"
	"roomdesk/internal/models"

	"github.com/rs/zerolog"
)

// recoveryInterval is how long the wrapper stays on the fallback before
// probing the primary again.
const recoveryInterval = time.Minute

type FailoverCacheRepository struct {
	primary  domain.CacheRepository
	fallback domain.CacheRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// unix nanos of the last failed primary attempt; atomic because reads
	// and writes race with each other across request goroutines
	lastCheck atomic.Int64
}

func NewFailoverCacheRepository(primary, fallback domain.CacheRepository, logger *zerolog.Logger) *FailoverCacheRepository {
	return &FailoverCacheRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverCacheRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary cache repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverCacheRepository) recoveryDue() bool {
	return r.isDown.Load() && time.Since(time.Unix(0, r.lastCheck.Load())) > recoveryInterval
}

func (r *FailoverCacheRepository) GetHotelRooms(ctx context.Context, hotelID int64) ([]*models.RoomWithOccupancy, error) {
	if !r.isDown.Load() {
		rooms, err := r.primary.GetHotelRooms(ctx, hotelID)
		if err == nil {
			return rooms, nil
		}
		r.markDown(err)
	}

	if r.recoveryDue() {
		rooms, err := r.primary.GetHotelRooms(ctx, hotelID)
		if err == nil {
			r.isDown.Store(false)
			return rooms, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.GetHotelRooms(ctx, hotelID)
}

func (r *FailoverCacheRepository) SetHotelRooms(ctx context.Context, hotelID int64, rooms []*models.RoomWithOccupancy) error {
	if !r.isDown.Load() {
		err := r.primary.SetHotelRooms(ctx, hotelID, rooms)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetHotelRooms(ctx, hotelID, rooms)
}

func (r *FailoverCacheRepository) InvalidateHotelRooms(ctx context.Context, hotelID int64) error {
	if !r.isDown.Load() {
		err := r.primary.InvalidateHotelRooms(ctx, hotelID)
		if err == nil {
			// keep the fallback coherent as well
			return r.fallback.InvalidateHotelRooms(ctx, hotelID)
		}
		r.markDown(err)
	}

	return r.fallback.InvalidateHotelRooms(ctx, hotelID)
}

func (r *FailoverCacheRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}
