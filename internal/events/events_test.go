package events

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() *Bus {
	logger := zerolog.New(io.Discard)
	return NewBus(&logger)
}

func TestBusPublishSubscribe(t *testing.T) {
	bus := newTestBus()

	var received []Event
	bus.Subscribe(EventBookingCreated, func(e Event) {
		received = append(received, e)
	})

	bus.Publish(Event{Type: EventBookingCreated, Payload: []byte(`{}`)})
	bus.Publish(Event{Type: EventBookingRoomChanged, Payload: []byte(`{}`)})

	require.Len(t, received, 1)
	assert.Equal(t, EventBookingCreated, received[0].Type)
}

func TestBusMultipleHandlers(t *testing.T) {
	bus := newTestBus()

	calls := 0
	bus.Subscribe(EventBookingCreated, func(Event) { calls++ })
	bus.Subscribe(EventBookingCreated, func(Event) { calls++ })

	bus.Publish(Event{Type: EventBookingCreated})
	assert.Equal(t, 2, calls)
}

func TestBusPublishJSON(t *testing.T) {
	bus := newTestBus()

	var got BookingEventPayload
	bus.Subscribe(EventBookingCreated, func(e Event) {
		require.NoError(t, json.Unmarshal(e.Payload, &got))
	})

	payload := BookingEventPayload{
		BookingID: 5,
		UserID:    42,
		RoomID:    101,
		Timestamp: time.Now(),
	}
	require.NoError(t, bus.PublishJSON(EventBookingCreated, payload))

	assert.Equal(t, int64(5), got.BookingID)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, int64(101), got.RoomID)
}

func TestBusPublishNoSubscribers(t *testing.T) {
	bus := newTestBus()
	assert.NotPanics(t, func() {
		bus.Publish(Event{Type: "unknown"})
	})
}
