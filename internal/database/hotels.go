package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roomdesk/internal/models"
)

func (db *DB) UpsertHotel(ctx context.Context, hotel *models.Hotel) error {
	query := `INSERT INTO hotels (id, name, image, updated_at)
              VALUES (?, ?, ?, ?)
              ON CONFLICT(id) DO UPDATE SET
                name = excluded.name,
                image = excluded.image,
                updated_at = excluded.updated_at`
	_, err := db.ExecContext(ctx, query, hotel.ID, hotel.Name, hotel.Image, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert hotel: %w", err)
	}
	return nil
}

func (db *DB) UpsertRoom(ctx context.Context, room *models.Room) error {
	query := `INSERT INTO rooms (id, hotel_id, name, capacity, updated_at)
              VALUES (?, ?, ?, ?, ?)
              ON CONFLICT(id) DO UPDATE SET
                hotel_id = excluded.hotel_id,
                name = excluded.name,
                capacity = excluded.capacity,
                updated_at = excluded.updated_at`
	_, err := db.ExecContext(ctx, query, room.ID, room.HotelID, room.Name, room.Capacity, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert room: %w", err)
	}
	return nil
}

func (db *DB) GetHotels(ctx context.Context) ([]*models.Hotel, error) {
	query := `SELECT id, name, image, created_at, updated_at FROM hotels ORDER BY id`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get hotels: %w", err)
	}
	defer rows.Close()

	var hotels []*models.Hotel
	for rows.Next() {
		var h models.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Image, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hotel: %w", err)
		}
		hotels = append(hotels, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hotels: %w", err)
	}
	return hotels, nil
}

func (db *DB) GetHotel(ctx context.Context, hotelID int64) (*models.Hotel, error) {
	query := `SELECT id, name, image, created_at, updated_at FROM hotels WHERE id = ?`
	var h models.Hotel
	err := db.QueryRowContext(ctx, query, hotelID).Scan(&h.ID, &h.Name, &h.Image, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	return &h, nil
}

// GetHotelRooms returns a hotel's rooms together with their current booking
// counts. Returns ErrHotelNotFound when the hotel does not exist.
func (db *DB) GetHotelRooms(ctx context.Context, hotelID int64) ([]*models.RoomWithOccupancy, error) {
	if _, err := db.GetHotel(ctx, hotelID); err != nil {
		return nil, err
	}

	query := `SELECT r.id, r.hotel_id, r.name, r.capacity, r.created_at, r.updated_at,
                     COUNT(b.id)
              FROM rooms r
              LEFT JOIN bookings b ON b.room_id = r.id
              WHERE r.hotel_id = ?
              GROUP BY r.id
              ORDER BY r.id`
	rows, err := db.QueryContext(ctx, query, hotelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]*models.RoomWithOccupancy, 0)
	for rows.Next() {
		var r models.RoomWithOccupancy
		if err := rows.Scan(&r.ID, &r.HotelID, &r.Name, &r.Capacity, &r.CreatedAt, &r.UpdatedAt, &r.BookedCount); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}
	return rooms, nil
}

// GetRoom returns a room by id, or ErrRoomNotFound.
func (db *DB) GetRoom(ctx context.Context, roomID int64) (*models.Room, error) {
	query := `SELECT id, hotel_id, name, capacity, created_at, updated_at FROM rooms WHERE id = ?`
	var r models.Room
	err := db.QueryRowContext(ctx, query, roomID).Scan(
		&r.ID, &r.HotelID, &r.Name, &r.Capacity, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &r, nil
}
