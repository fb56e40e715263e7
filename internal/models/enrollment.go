package models

import "time"

// Enrollment holds the identity and address data a user submits before
// any ticket or booking action is allowed.
type Enrollment struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	FullName    string    `json:"full_name"`
	Document    string    `json:"document"`
	Phone       string    `json:"phone"`
	AddressLine string    `json:"address_line"`
	City        string    `json:"city"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
