package models

import "time"

type Booking struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	RoomID    int64     `json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingWithRoom is the denormalized read shape for GET paths: the booking
// joined with its room so callers get room details in one round trip.
type BookingWithRoom struct {
	Booking
	Room Room `json:"room"`
}
