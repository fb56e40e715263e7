package models

import "time"

type Ticket struct {
	ID           int64     `json:"id"`
	EnrollmentID int64     `json:"enrollment_id"`
	TicketTypeID int64     `json:"ticket_type_id"`
	Status       string    `json:"status"` // RESERVED, PAID
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Type *TicketType `json:"type,omitempty"`
}

// TicketType is immutable reference data seeded from configs/seed.yaml.
type TicketType struct {
	ID            int64  `yaml:"id" json:"id"`
	Name          string `yaml:"name" json:"name"`
	PriceCents    int64  `yaml:"price_cents" json:"price_cents"`
	IsRemote      bool   `yaml:"is_remote" json:"is_remote"`
	IncludesHotel bool   `yaml:"includes_hotel" json:"includes_hotel"`
}

// GrantsHotelAccess reports whether a paid ticket of this type admits the
// holder to hotel booking.
func (t TicketType) GrantsHotelAccess() bool {
	return !t.IsRemote && t.IncludesHotel
}
