package config

import (
	"fmt"
	"os"

	"roomdesk/internal/models"

	"gopkg.in/yaml.v3"
)

// Seed is the reference data (ticket types, hotels, rooms) loaded at startup
// and upserted into the database.
type Seed struct {
	TicketTypes []models.TicketType `yaml:"ticket_types"`
	Hotels      []models.Hotel      `yaml:"hotels"`
}

func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, err
	}

	if err := ValidateSeed(&seed); err != nil {
		return nil, fmt.Errorf("seed validation failed: %w", err)
	}

	return &seed, nil
}

func ValidateSeed(seed *Seed) error {
	typeIDs := make(map[int64]bool)
	for _, tt := range seed.TicketTypes {
		if tt.ID == 0 {
			return fmt.Errorf("ticket type '%s' has invalid ID 0", tt.Name)
		}
		if typeIDs[tt.ID] {
			return fmt.Errorf("duplicate ticket type ID found: %d", tt.ID)
		}
		typeIDs[tt.ID] = true
	}

	hotelIDs := make(map[int64]bool)
	roomIDs := make(map[int64]bool)
	for _, h := range seed.Hotels {
		if h.ID == 0 {
			return fmt.Errorf("hotel '%s' has invalid ID 0", h.Name)
		}
		if hotelIDs[h.ID] {
			return fmt.Errorf("duplicate hotel ID found: %d", h.ID)
		}
		hotelIDs[h.ID] = true

		for _, r := range h.Rooms {
			if r.ID == 0 {
				return fmt.Errorf("room '%s' in hotel %d has invalid ID 0", r.Name, h.ID)
			}
			if roomIDs[r.ID] {
				return fmt.Errorf("duplicate room ID found: %d", r.ID)
			}
			roomIDs[r.ID] = true
			if r.Capacity <= 0 {
				return fmt.Errorf("room %d has invalid capacity %d", r.ID, r.Capacity)
			}
		}
	}

	return nil
}
