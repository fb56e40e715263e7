package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	assert.NotPanics(t, func() {
		ObserveHTTP("/api/v1/booking", 200, 15*time.Millisecond)
		IncBooking("create", "ok")
		IncBooking("update", "cannot_book")
	})
}
