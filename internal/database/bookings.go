package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roomdesk/internal/models"

	"github.com/mattn/go-sqlite3"
)

func (db *DB) GetBookedCount(ctx context.Context, roomID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE room_id = ?`
	var count int64
	if err := db.QueryRowContext(ctx, query, roomID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get booked count: %w", err)
	}
	return count, nil
}

// GetBookingByUser returns the user's booking joined with its room, or
// (nil, nil) when the user holds no booking. UNIQUE(user_id) guarantees at
// most one row.
func (db *DB) GetBookingByUser(ctx context.Context, userID int64) (*models.BookingWithRoom, error) {
	query := `SELECT b.id, b.user_id, b.room_id, b.created_at, b.updated_at,
                     r.id, r.hotel_id, r.name, r.capacity, r.created_at, r.updated_at
              FROM bookings b
              JOIN rooms r ON r.id = b.room_id
              WHERE b.user_id = ?`

	var bwr models.BookingWithRoom
	err := db.QueryRowContext(ctx, query, userID).Scan(
		&bwr.ID, &bwr.UserID, &bwr.RoomID, &bwr.CreatedAt, &bwr.UpdatedAt,
		&bwr.Room.ID, &bwr.Room.HotelID, &bwr.Room.Name, &bwr.Room.Capacity,
		&bwr.Room.CreatedAt, &bwr.Room.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &bwr, nil
}

// CreateBookingWithLock inserts a booking after re-checking room existence
// and capacity inside a single transaction, so two concurrent creates cannot
// both pass the capacity check and overrun the room.
//
// Returns ErrRoomNotFound, ErrRoomFull or ErrDuplicateBooking accordingly.
func (db *DB) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Existence first: a missing room must surface as not-found even when it
	// would also count as full.
	var capacity int64
	err = tx.QueryRowContext(ctx, `SELECT capacity FROM rooms WHERE id = ?`, booking.RoomID).Scan(&capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check room in tx: %w", err)
	}

	var bookedCount int64
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE room_id = ?`, booking.RoomID).Scan(&bookedCount)
	if err != nil {
		return fmt.Errorf("failed to check occupancy in tx: %w", err)
	}
	if bookedCount >= capacity {
		return ErrRoomFull
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, room_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		booking.UserID, booking.RoomID, now, now,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateBooking
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return nil
}

// MoveBookingWithLock repoints an existing booking at a new room, re-checking
// the target room's existence and capacity in the same transaction as the
// update. Identity and creation timestamp are preserved.
func (db *DB) MoveBookingWithLock(ctx context.Context, bookingID, roomID int64) (*models.Booking, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var capacity int64
	err = tx.QueryRowContext(ctx, `SELECT capacity FROM rooms WHERE id = ?`, roomID).Scan(&capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check room in tx: %w", err)
	}

	var bookedCount int64
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE room_id = ?`, roomID).Scan(&bookedCount)
	if err != nil {
		return nil, fmt.Errorf("failed to check occupancy in tx: %w", err)
	}
	if bookedCount >= capacity {
		return nil, ErrRoomFull
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`UPDATE bookings SET room_id = ?, updated_at = ? WHERE id = ?`,
		roomID, now, bookingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to move booking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrBookingNotFound
	}

	var booking models.Booking
	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, room_id, created_at, updated_at FROM bookings WHERE id = ?`, bookingID).Scan(
		&booking.ID, &booking.UserID, &booking.RoomID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read back booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking move: %w", err)
	}

	return &booking, nil
}

// BookingExportRow is the flattened shape consumed by the xlsx export.
type BookingExportRow struct {
	BookingID int64
	UserID    int64
	HotelName string
	RoomName  string
	Capacity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (db *DB) ListBookingsForExport(ctx context.Context) ([]BookingExportRow, error) {
	query := `SELECT b.id, b.user_id, h.name, r.name, r.capacity, b.created_at, b.updated_at
              FROM bookings b
              JOIN rooms r ON r.id = b.room_id
              JOIN hotels h ON h.id = r.hotel_id
              ORDER BY b.id`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for export: %w", err)
	}
	defer rows.Close()

	var out []BookingExportRow
	for rows.Next() {
		var row BookingExportRow
		if err := rows.Scan(&row.BookingID, &row.UserID, &row.HotelName, &row.RoomName,
			&row.Capacity, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate export rows: %w", err)
	}
	return out, nil
}
