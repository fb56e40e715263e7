package domain

import (
	"context"
	"time"

	"roomdesk/internal/database"
	"roomdesk/internal/models"
)

// Repository is the persistence surface consumed by the services. Lookup
// methods return (nil, nil) for absent enrollment/ticket/booking; room and
// hotel lookups return the database sentinel errors instead because callers
// always classify those as not-found.
type Repository interface {
	GetEnrollmentByUser(ctx context.Context, userID int64) (*models.Enrollment, error)
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error

	GetTicketByEnrollment(ctx context.Context, enrollmentID int64) (*models.Ticket, error)
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	SetTicketStatus(ctx context.Context, ticketID int64, status string) error

	GetHotels(ctx context.Context) ([]*models.Hotel, error)
	GetHotelRooms(ctx context.Context, hotelID int64) ([]*models.RoomWithOccupancy, error)
	GetRoom(ctx context.Context, roomID int64) (*models.Room, error)

	GetBookedCount(ctx context.Context, roomID int64) (int64, error)
	GetBookingByUser(ctx context.Context, userID int64) (*models.BookingWithRoom, error)
	CreateBookingWithLock(ctx context.Context, booking *models.Booking) error
	MoveBookingWithLock(ctx context.Context, bookingID, roomID int64) (*models.Booking, error)
	ListBookingsForExport(ctx context.Context) ([]database.BookingExportRow, error)
}

// CacheRepository keeps short-lived room occupancy snapshots and per-user
// request counters outside the hot sqlite path.
type CacheRepository interface {
	GetHotelRooms(ctx context.Context, hotelID int64) ([]*models.RoomWithOccupancy, error)
	SetHotelRooms(ctx context.Context, hotelID int64, rooms []*models.RoomWithOccupancy) error
	InvalidateHotelRooms(ctx context.Context, hotelID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SyncWorker schedules background export work triggered by booking writes.
type SyncWorker interface {
	EnqueueExport(ctx context.Context) error
}

type BookingService interface {
	Create(ctx context.Context, userID, roomID int64) (*models.Booking, error)
	GetByUser(ctx context.Context, userID int64) (*models.BookingWithRoom, error)
	Update(ctx context.Context, userID, bookingID, roomID int64) (*models.Booking, error)
}

type HotelService interface {
	ListHotels(ctx context.Context, userID int64) ([]*models.Hotel, error)
	ListHotelRooms(ctx context.Context, userID, hotelID int64) ([]*models.RoomWithOccupancy, error)
}
