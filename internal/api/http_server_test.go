package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roomdesk/internal/config"
	"roomdesk/internal/models"
	"roomdesk/internal/repository"
	"roomdesk/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingService struct {
	createFn func(ctx context.Context, userID, roomID int64) (*models.Booking, error)
	getFn    func(ctx context.Context, userID int64) (*models.BookingWithRoom, error)
	updateFn func(ctx context.Context, userID, bookingID, roomID int64) (*models.Booking, error)
}

func (f *fakeBookingService) Create(ctx context.Context, userID, roomID int64) (*models.Booking, error) {
	return f.createFn(ctx, userID, roomID)
}

func (f *fakeBookingService) GetByUser(ctx context.Context, userID int64) (*models.BookingWithRoom, error) {
	return f.getFn(ctx, userID)
}

func (f *fakeBookingService) Update(ctx context.Context, userID, bookingID, roomID int64) (*models.Booking, error) {
	return f.updateFn(ctx, userID, bookingID, roomID)
}

type fakeHotelService struct {
	listFn  func(ctx context.Context, userID int64) ([]*models.Hotel, error)
	roomsFn func(ctx context.Context, userID, hotelID int64) ([]*models.RoomWithOccupancy, error)
}

func (f *fakeHotelService) ListHotels(ctx context.Context, userID int64) ([]*models.Hotel, error) {
	return f.listFn(ctx, userID)
}

func (f *fakeHotelService) ListHotelRooms(ctx context.Context, userID, hotelID int64) ([]*models.RoomWithOccupancy, error) {
	return f.roomsFn(ctx, userID, hotelID)
}

func openTestConfig() config.APIConfig {
	return config.APIConfig{
		Enabled: true,
		HTTP:    config.APIHTTPConfig{Enabled: true, Port: 8080},
	}
}

func newTestServer(t *testing.T, bookings *fakeBookingService, hotels *fakeHotelService) *HTTPServer {
	t.Helper()
	logger := zerolog.New(io.Discard)
	return NewHTTPServer(openTestConfig(), bookings, hotels, nil, &logger)
}

func doRequest(srv *HTTPServer, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-User-ID", "42")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleBookingCreate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		bookings := &fakeBookingService{
			createFn: func(ctx context.Context, userID, roomID int64) (*models.Booking, error) {
				assert.Equal(t, int64(42), userID)
				assert.Equal(t, int64(101), roomID)
				return &models.Booking{ID: 7, UserID: userID, RoomID: roomID}, nil
			},
		}
		srv := newTestServer(t, bookings, nil)

		rec := doRequest(srv, http.MethodPost, "/api/v1/booking", `{"roomId":101}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"bookingId":7`)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		srv := newTestServer(t, &fakeBookingService{}, nil)
		rec := doRequest(srv, http.MethodPost, "/api/v1/booking", `{nope`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ErrorMapping", func(t *testing.T) {
		cases := []struct {
			name   string
			err    error
			status int
		}{
			{"BadRequest", service.ErrBadRequest, http.StatusBadRequest},
			{"CannotBook", fmt.Errorf("%w: room is full", service.ErrCannotBook), http.StatusForbidden},
			{"NotFound", fmt.Errorf("%w: room", service.ErrNotFound), http.StatusNotFound},
			{"Internal", errors.New("db exploded"), http.StatusInternalServerError},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				bookings := &fakeBookingService{
					createFn: func(ctx context.Context, userID, roomID int64) (*models.Booking, error) {
						return nil, tc.err
					},
				}
				srv := newTestServer(t, bookings, nil)
				rec := doRequest(srv, http.MethodPost, "/api/v1/booking", `{"roomId":101}`, nil)
				assert.Equal(t, tc.status, rec.Code)
			})
		}
	})

	t.Run("InternalErrorHidesDetails", func(t *testing.T) {
		bookings := &fakeBookingService{
			createFn: func(ctx context.Context, userID, roomID int64) (*models.Booking, error) {
				return nil, errors.New("secret db details")
			},
		}
		srv := newTestServer(t, bookings, nil)
		rec := doRequest(srv, http.MethodPost, "/api/v1/booking", `{"roomId":101}`, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret")
	})
}

func TestHandleBookingGet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		bookings := &fakeBookingService{
			getFn: func(ctx context.Context, userID int64) (*models.BookingWithRoom, error) {
				return &models.BookingWithRoom{
					Booking: models.Booking{ID: 7, UserID: userID, RoomID: 101},
					Room:    models.Room{ID: 101, Name: "101", Capacity: 2},
				}, nil
			},
		}
		srv := newTestServer(t, bookings, nil)

		rec := doRequest(srv, http.MethodGet, "/api/v1/booking", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":7`)
		assert.Contains(t, rec.Body.String(), `"101"`)
	})

	t.Run("NotFound", func(t *testing.T) {
		bookings := &fakeBookingService{
			getFn: func(ctx context.Context, userID int64) (*models.BookingWithRoom, error) {
				return nil, fmt.Errorf("%w: user has no booking", service.ErrNotFound)
			},
		}
		srv := newTestServer(t, bookings, nil)

		rec := doRequest(srv, http.MethodGet, "/api/v1/booking", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleBookingUpdate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		bookings := &fakeBookingService{
			updateFn: func(ctx context.Context, userID, bookingID, roomID int64) (*models.Booking, error) {
				assert.Equal(t, int64(7), bookingID)
				assert.Equal(t, int64(103), roomID)
				return &models.Booking{ID: bookingID, UserID: userID, RoomID: roomID}, nil
			},
		}
		srv := newTestServer(t, bookings, nil)

		rec := doRequest(srv, http.MethodPut, "/api/v1/booking/7", `{"roomId":103}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"bookingId":7`)
	})

	t.Run("InvalidBookingID", func(t *testing.T) {
		srv := newTestServer(t, &fakeBookingService{}, nil)
		rec := doRequest(srv, http.MethodPut, "/api/v1/booking/abc", `{"roomId":103}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		srv := newTestServer(t, &fakeBookingService{}, nil)
		rec := doRequest(srv, http.MethodGet, "/api/v1/booking/7", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleHotels(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		hotels := &fakeHotelService{
			listFn: func(ctx context.Context, userID int64) ([]*models.Hotel, error) {
				return []*models.Hotel{{ID: 1, Name: "Driven Resort"}}, nil
			},
		}
		srv := newTestServer(t, nil, hotels)

		rec := doRequest(srv, http.MethodGet, "/api/v1/hotels", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Driven Resort")
	})

	t.Run("ListForbidden", func(t *testing.T) {
		hotels := &fakeHotelService{
			listFn: func(ctx context.Context, userID int64) ([]*models.Hotel, error) {
				return nil, fmt.Errorf("%w: ticket is not paid", service.ErrCannotBook)
			},
		}
		srv := newTestServer(t, nil, hotels)

		rec := doRequest(srv, http.MethodGet, "/api/v1/hotels", "", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Rooms", func(t *testing.T) {
		hotels := &fakeHotelService{
			roomsFn: func(ctx context.Context, userID, hotelID int64) ([]*models.RoomWithOccupancy, error) {
				assert.Equal(t, int64(1), hotelID)
				return []*models.RoomWithOccupancy{
					{Room: models.Room{ID: 101, Name: "101", Capacity: 2}, BookedCount: 1},
				}, nil
			},
		}
		srv := newTestServer(t, nil, hotels)

		rec := doRequest(srv, http.MethodGet, "/api/v1/hotels/1/rooms", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"booked_count":1`)
	})

	t.Run("RoomsBadPath", func(t *testing.T) {
		srv := newTestServer(t, nil, &fakeHotelService{})
		rec := doRequest(srv, http.MethodGet, "/api/v1/hotels/1/bogus", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("RoomsInvalidID", func(t *testing.T) {
		srv := newTestServer(t, nil, &fakeHotelService{})
		rec := doRequest(srv, http.MethodGet, "/api/v1/hotels/abc/rooms", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	rec := doRequest(srv, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestIdentityRequired(t *testing.T) {
	srv := newTestServer(t, &fakeBookingService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/booking", nil)
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTIdentity(t *testing.T) {
	const secret = "test-secret"

	cfg := openTestConfig()
	cfg.Auth.JWTSecret = secret

	bookings := &fakeBookingService{
		getFn: func(ctx context.Context, userID int64) (*models.BookingWithRoom, error) {
			assert.Equal(t, int64(99), userID)
			return &models.BookingWithRoom{
				Booking: models.Booking{ID: 1, UserID: userID, RoomID: 101},
			}, nil
		},
	}
	logger := zerolog.New(io.Discard)
	srv := NewHTTPServer(cfg, bookings, nil, nil, &logger)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 99,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	t.Run("ValidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/booking", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		srv.server.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("BadToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/booking", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		srv.server.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPerUserRateLimit(t *testing.T) {
	cfg := openTestConfig()
	cfg.RateLimit.UserRequests = 2
	cfg.RateLimit.UserWindowSec = 60

	bookings := &fakeBookingService{
		getFn: func(ctx context.Context, userID int64) (*models.BookingWithRoom, error) {
			return &models.BookingWithRoom{Booking: models.Booking{ID: 1, UserID: userID}}, nil
		},
	}
	cache := repository.NewMemoryCacheRepository(time.Minute)
	logger := zerolog.New(io.Discard)
	srv := NewHTTPServer(cfg, bookings, nil, cache, &logger)

	for i := 0; i < 2; i++ {
		rec := doRequest(srv, http.MethodGet, "/api/v1/booking", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(srv, http.MethodGet, "/api/v1/booking", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
