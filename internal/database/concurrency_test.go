package database

import (
	"context"
	"sync"
	"testing"

	"roomdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentBookingCreate(t *testing.T) {
	db := newTestDB(t)
	seedReferenceData(t, db)
	ctx := context.Background()

	// room 102 has capacity 1
	const numGoroutines = 10
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			booking := &models.Booking{
				UserID: int64(100 + id),
				RoomID: 102,
			}
			results <- db.CreateBookingWithLock(ctx, booking)
		}(i)
	}

	wg.Wait()
	close(results)

	successCount := 0
	fullCount := 0
	for err := range results {
		switch {
		case err == nil:
			successCount++
		default:
			assert.ErrorIs(t, err, ErrRoomFull)
			fullCount++
		}
	}

	// Only 1 booking can land in a capacity-1 room
	assert.Equal(t, 1, successCount, "only one booking should succeed for a capacity-1 room")
	assert.Equal(t, numGoroutines-1, fullCount)

	count, err := db.GetBookedCount(ctx, 102)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestConcurrentBookingMove(t *testing.T) {
	db := newTestDB(t)
	seedReferenceData(t, db)
	ctx := context.Background()

	// Two users booked elsewhere race to move into the last slot of room 102.
	first := &models.Booking{UserID: 1, RoomID: 101}
	second := &models.Booking{UserID: 2, RoomID: 103}
	require.NoError(t, db.CreateBookingWithLock(ctx, first))
	require.NoError(t, db.CreateBookingWithLock(ctx, second))

	var wg sync.WaitGroup
	wg.Add(2)
	results := make(chan error, 2)

	for _, id := range []int64{first.ID, second.ID} {
		go func(bookingID int64) {
			defer wg.Done()
			_, err := db.MoveBookingWithLock(ctx, bookingID, 102)
			results <- err
		}(id)
	}

	wg.Wait()
	close(results)

	successCount := 0
	for err := range results {
		if err == nil {
			successCount++
		} else {
			assert.ErrorIs(t, err, ErrRoomFull)
		}
	}
	assert.Equal(t, 1, successCount)

	count, err := db.GetBookedCount(ctx, 102)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
