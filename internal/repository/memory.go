package repository

import (
	"context"
	"sync"
	"time"

	"roomdesk/internal/models"
)

type MemoryCacheRepository struct {
	rooms sync.Map
	ttl   time.Duration

	mu         sync.Mutex
	rateLimits map[int64]*rateLimitEntry
}

func NewMemoryCacheRepository(ttl time.Duration) *MemoryCacheRepository {
	return &MemoryCacheRepository{
		ttl:        ttl,
		rateLimits: make(map[int64]*rateLimitEntry),
	}
}

type roomsEntry struct {
	rooms     []*models.RoomWithOccupancy
	expiresAt time.Time
}

func (r *MemoryCacheRepository) GetHotelRooms(ctx context.Context, hotelID int64) ([]*models.RoomWithOccupancy, error) {
	val, ok := r.rooms.Load(hotelID)
	if !ok {
		return nil, nil
	}
	entry := val.(*roomsEntry)
	if time.Now().After(entry.expiresAt) {
		r.rooms.Delete(hotelID)
		return nil, nil
	}
	return entry.rooms, nil
}

func (r *MemoryCacheRepository) SetHotelRooms(ctx context.Context, hotelID int64, rooms []*models.RoomWithOccupancy) error {
	r.rooms.Store(hotelID, &roomsEntry{
		rooms:     rooms,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryCacheRepository) InvalidateHotelRooms(ctx context.Context, hotelID int64) error {
	r.rooms.Delete(hotelID)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// CheckRateLimit counts requests per user inside a fixed window. The whole
// read-increment-decide sequence runs under the mutex so concurrent requests
// from one user cannot slip past the limit between each other's increments.
func (r *MemoryCacheRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.rateLimits[userID]
	if !ok || now.After(entry.expiresAt) {
		r.rateLimits[userID] = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
		return limit >= 1, nil
	}

	entry.count++
	return entry.count <= limit, nil
}
