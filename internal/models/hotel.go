package models

import "time"

type Hotel struct {
	ID        int64     `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	Image     string    `yaml:"image" json:"image"`
	Rooms     []Room    `yaml:"rooms" json:"rooms,omitempty"`
	CreatedAt time.Time `yaml:"-" json:"created_at"`
	UpdatedAt time.Time `yaml:"-" json:"updated_at"`
}

type Room struct {
	ID        int64     `yaml:"id" json:"id"`
	HotelID   int64     `yaml:"-" json:"hotel_id"`
	Name      string    `yaml:"name" json:"name"`
	Capacity  int64     `yaml:"capacity" json:"capacity"`
	CreatedAt time.Time `yaml:"-" json:"created_at"`
	UpdatedAt time.Time `yaml:"-" json:"updated_at"`
}

// RoomWithOccupancy pairs a room with its current booking count for
// availability listings.
type RoomWithOccupancy struct {
	Room
	BookedCount int64 `json:"booked_count"`
}

// Available reports whether the room can admit one more booking.
func (r RoomWithOccupancy) Available() bool {
	return r.BookedCount < r.Capacity
}
