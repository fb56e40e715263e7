package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"roomdesk/internal/config"
	"roomdesk/internal/domain"
	"roomdesk/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTPServer exposes the booking API over plain net/http.
type HTTPServer struct {
	cfg      config.APIConfig
	bookings domain.BookingService
	hotels   domain.HotelService
	cache    domain.CacheRepository
	server   *http.Server
	auth     *HTTPAuth
	logger   *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, bookings domain.BookingService, hotels domain.HotelService, cache domain.CacheRepository, logger *zerolog.Logger) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:      cfg,
		bookings: bookings,
		hotels:   hotels,
		cache:    cache,
		logger:   logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/booking", srv.withIdentity(srv.handleBooking))
	mux.HandleFunc("/api/v1/booking/", srv.withIdentity(srv.handleBookingByID))
	mux.HandleFunc("/api/v1/hotels", srv.withIdentity(srv.handleHotels))
	mux.HandleFunc("/api/v1/hotels/", srv.withIdentity(srv.handleHotelRooms))
	mux.HandleFunc("/healthz", srv.handleHealth)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// withIdentity resolves the caller's user identity and applies the per-user
// rate limit before invoking the handler.
func (s *HTTPServer) withIdentity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.auth.resolveUserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		if s.cache != nil && s.cfg.RateLimit.UserRequests > 0 {
			window := time.Duration(s.cfg.RateLimit.UserWindowSec) * time.Second
			allowed, err := s.cache.CheckRateLimit(r.Context(), userID, s.cfg.RateLimit.UserRequests, window)
			if err != nil {
				s.logger.Error().Err(err).Int64("user_id", userID).Msg("user rate limit check failed")
			} else if !allowed {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}

		next(w, r.WithContext(withUserID(r.Context(), userID)))
	}
}

func (s *HTTPServer) handleBooking(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	switch r.Method {
	case http.MethodGet:
		booking, err := s.bookings.GetByUser(r.Context(), userID)
		if err != nil {
			s.writeBookingError(w, "get", err)
			return
		}
		metrics.IncBooking("get", "ok")
		writeJSON(w, http.StatusOK, booking)

	case http.MethodPost:
		var body struct {
			RoomID int64 `json:"roomId"`
		}
		if err := decodeBody(r, &body); err != nil {
			metrics.IncBooking("create", "bad_request")
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		booking, err := s.bookings.Create(r.Context(), userID, body.RoomID)
		if err != nil {
			s.writeBookingError(w, "create", err)
			return
		}
		metrics.IncBooking("create", "ok")
		writeJSON(w, http.StatusOK, map[string]any{"bookingId": booking.ID})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID, _ := UserID(r.Context())

	raw := strings.TrimPrefix(r.URL.Path, "/api/v1/booking/")
	bookingID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		metrics.IncBooking("update", "bad_request")
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var body struct {
		RoomID int64 `json:"roomId"`
	}
	if err := decodeBody(r, &body); err != nil {
		metrics.IncBooking("update", "bad_request")
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.Update(r.Context(), userID, bookingID, body.RoomID)
	if err != nil {
		s.writeBookingError(w, "update", err)
		return
	}
	metrics.IncBooking("update", "ok")
	writeJSON(w, http.StatusOK, map[string]any{"bookingId": booking.ID})
}

func (s *HTTPServer) handleHotels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID, _ := UserID(r.Context())

	hotels, err := s.hotels.ListHotels(r.Context(), userID)
	if err != nil {
		status, _ := statusFromError(err)
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hotels": hotels})
}

func (s *HTTPServer) handleHotelRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID, _ := UserID(r.Context())

	// Expected shape: /api/v1/hotels/{id}/rooms
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/hotels/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[1] != "rooms" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	hotelID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid hotel id")
		return
	}

	rooms, err := s.hotels.ListHotelRooms(r.Context(), userID, hotelID)
	if err != nil {
		status, _ := statusFromError(err)
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) writeBookingError(w http.ResponseWriter, operation string, err error) {
	status, result := statusFromError(err)
	metrics.IncBooking(operation, result)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("operation", operation).Msg("booking operation failed")
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		metrics.ObserveHTTP(endpointLabel(r.URL.Path), recorder.status, dur)
		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

// endpointLabel collapses paths with ids to keep metric cardinality bounded.
func endpointLabel(path string) string {
	switch {
	case path == "/api/v1/booking":
		return "/api/v1/booking"
	case strings.HasPrefix(path, "/api/v1/booking/"):
		return "/api/v1/booking/{id}"
	case path == "/api/v1/hotels":
		return "/api/v1/hotels"
	case strings.HasPrefix(path, "/api/v1/hotels/"):
		return "/api/v1/hotels/{id}/rooms"
	case path == "/healthz":
		return "/healthz"
	}
	return "other"
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
