package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"roomdesk/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedReferenceData(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	types := []models.TicketType{
		{ID: 1, Name: "Presential + Hotel", PriceCents: 60000, IncludesHotel: true},
		{ID: 2, Name: "Presential", PriceCents: 25000},
		{ID: 3, Name: "Online", PriceCents: 10000, IsRemote: true},
	}
	hotels := []models.Hotel{
		{ID: 1, Name: "Driven Resort", Image: "https://example.com/resort.png", Rooms: []models.Room{
			{ID: 101, Name: "101", Capacity: 2},
			{ID: 102, Name: "102", Capacity: 1},
			{ID: 103, Name: "103", Capacity: 3},
		}},
		{ID: 2, Name: "Driven Palace", Rooms: []models.Room{
			{ID: 201, Name: "201", Capacity: 2},
		}},
	}

	require.NoError(t, db.ApplySeed(ctx, types, hotels))
}

func TestApplySeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedReferenceData(t, db)
	seedReferenceData(t, db)

	hotels, err := db.GetHotels(ctx)
	require.NoError(t, err)
	assert.Len(t, hotels, 2)

	rooms, err := db.GetHotelRooms(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rooms, 3)
}

func TestEnrollments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		enrollment, err := db.GetEnrollmentByUser(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, enrollment)
	})

	t.Run("CreateAndGet", func(t *testing.T) {
		enrollment := &models.Enrollment{
			UserID:   42,
			FullName: "Ana Souza",
			Document: "123.456.789-00",
			Phone:    "+55 11 99999-0000",
			City:     "São Paulo",
		}
		require.NoError(t, db.CreateEnrollment(ctx, enrollment))
		assert.NotZero(t, enrollment.ID)

		got, err := db.GetEnrollmentByUser(ctx, 42)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, enrollment.ID, got.ID)
		assert.Equal(t, "Ana Souza", got.FullName)
	})

	t.Run("DuplicateUser", func(t *testing.T) {
		err := db.CreateEnrollment(ctx, &models.Enrollment{UserID: 42, FullName: "Again"})
		assert.Error(t, err)
	})
}

func TestTickets(t *testing.T) {
	db := newTestDB(t)
	seedReferenceData(t, db)
	ctx := context.Background()

	enrollment := &models.Enrollment{UserID: 7, FullName: "Bruno Lima"}
	require.NoError(t, db.CreateEnrollment(ctx, enrollment))

	t.Run("GetMissing", func(t *testing.T) {
		ticket, err := db.GetTicketByEnrollment(ctx, enrollment.ID)
		require.NoError(t, err)
		assert.Nil(t, ticket)
	})

	t.Run("CreateAndGetWithType", func(t *testing.T) {
		ticket := &models.Ticket{EnrollmentID: enrollment.ID, TicketTypeID: 1}
		require.NoError(t, db.CreateTicket(ctx, ticket))
		assert.Equal(t, models.TicketStatusReserved, ticket.Status)

		got, err := db.GetTicketByEnrollment(ctx, enrollment.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.Type)
		assert.True(t, got.Type.IncludesHotel)
		assert.False(t, got.Type.IsRemote)
	})

	t.Run("SetStatus", func(t *testing.T) {
		got, err := db.GetTicketByEnrollment(ctx, enrollment.ID)
		require.NoError(t, err)

		require.NoError(t, db.SetTicketStatus(ctx, got.ID, models.TicketStatusPaid))

		updated, err := db.GetTicketByEnrollment(ctx, enrollment.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TicketStatusPaid, updated.Status)
	})

	t.Run("SetStatusMissing", func(t *testing.T) {
		assert.Error(t, db.SetTicketStatus(ctx, 9999, models.TicketStatusPaid))
	})
}

func TestHotels(t *testing.T) {
	db := newTestDB(t)
	seedReferenceData(t, db)
	ctx := context.Background()

	t.Run("GetHotels", func(t *testing.T) {
		hotels, err := db.GetHotels(ctx)
		require.NoError(t, err)
		require.Len(t, hotels, 2)
		assert.Equal(t, "Driven Resort", hotels[0].Name)
	})

	t.Run("GetHotelMissing", func(t *testing.T) {
		_, err := db.GetHotel(ctx, 99)
		assert.ErrorIs(t, err, ErrHotelNotFound)
	})

	t.Run("GetHotelRoomsMissingHotel", func(t *testing.T) {
		_, err := db.GetHotelRooms(ctx, 99)
		assert.ErrorIs(t, err, ErrHotelNotFound)
	})

	t.Run("GetRoom", func(t *testing.T) {
		room, err := db.GetRoom(ctx, 101)
		require.NoError(t, err)
		assert.Equal(t, int64(2), room.Capacity)
		assert.Equal(t, int64(1), room.HotelID)
	})

	t.Run("GetRoomMissing", func(t *testing.T) {
		_, err := db.GetRoom(ctx, 999)
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("RoomOccupancy", func(t *testing.T) {
		require.NoError(t, db.CreateBookingWithLock(ctx, &models.Booking{UserID: 1, RoomID: 101}))

		rooms, err := db.GetHotelRooms(ctx, 1)
		require.NoError(t, err)
		require.Len(t, rooms, 3)

		byID := make(map[int64]*models.RoomWithOccupancy)
		for _, r := range rooms {
			byID[r.ID] = r
		}
		assert.Equal(t, int64(1), byID[101].BookedCount)
		assert.Equal(t, int64(0), byID[102].BookedCount)
		assert.True(t, byID[101].Available())
	})
}

func TestSyncQueue(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	task := &models.SyncTask{TaskType: "export_bookings", Status: "pending"}
	require.NoError(t, db.CreateSyncTask(ctx, task))
	assert.NotZero(t, task.ID)

	pending, err := db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "export_bookings", pending[0].TaskType)

	require.NoError(t, db.UpdateSyncTaskStatus(ctx, task.ID, "completed", "", nil))

	pending, err = db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
