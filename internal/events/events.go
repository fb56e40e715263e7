package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	EventBookingCreated     = "booking_created"
	EventBookingRoomChanged = "booking_room_changed"
)

// BookingEventPayload is the envelope published on every booking write.
type BookingEventPayload struct {
	BookingID int64     `json:"booking_id"`
	UserID    int64     `json:"user_id"`
	RoomID    int64     `json:"room_id"`
	HotelID   int64     `json:"hotel_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Event struct {
	Type    string
	Payload []byte
}

type Handler func(Event)

// Bus is a small in-process publish/subscribe hub. Handlers run on the
// publisher's goroutine, so they must not block.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zerolog.Logger
}

func NewBus(logger *zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}

	b.logger.Debug().
		Str("event_type", event.Type).
		Int("handlers", len(handlers)).
		Msg("event published")
}

func (b *Bus) PublishJSON(eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	b.Publish(Event{Type: eventType, Payload: data})
	return nil
}
