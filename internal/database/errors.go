package database

import "errors"

var (
	// ErrRoomNotFound is returned when a referenced room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrHotelNotFound is returned when a referenced hotel does not exist.
	ErrHotelNotFound = errors.New("hotel not found")

	// ErrBookingNotFound is returned when a booking lookup by id finds nothing.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrRoomFull is returned when a room's booking count has reached its
	// capacity. Checked inside the write transaction, never before it.
	ErrRoomFull = errors.New("room is at full capacity")

	// ErrDuplicateBooking is returned when the UNIQUE(user_id) index rejects
	// a second booking for the same user.
	ErrDuplicateBooking = errors.New("user already has a booking")
)
