package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomdesk/internal/database"
	"roomdesk/internal/domain"
	"roomdesk/internal/events"
	"roomdesk/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo         domain.Repository
	cache        domain.CacheRepository
	eventBus     domain.EventPublisher
	exportWorker domain.SyncWorker
	logger       *zerolog.Logger
}

func NewBookingService(repo domain.Repository, cache domain.CacheRepository, eventBus domain.EventPublisher, exportWorker domain.SyncWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:         repo,
		cache:        cache,
		eventBus:     eventBus,
		exportWorker: exportWorker,
		logger:       logger,
	}
}

// checkEligibility runs the booking precondition chain in its fixed order:
// enrollment existence, then ticket existence, then payment status, then
// ticket type access. The first failing check decides the returned error.
func checkEligibility(ctx context.Context, repo domain.Repository, userID int64) error {
	enrollment, err := repo.GetEnrollmentByUser(ctx, userID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return fmt.Errorf("%w: user has no enrollment", ErrCannotBook)
	}

	ticket, err := repo.GetTicketByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return err
	}
	if ticket == nil {
		return fmt.Errorf("%w: user has no ticket", ErrCannotBook)
	}
	if ticket.Status != models.TicketStatusPaid {
		return fmt.Errorf("%w: ticket is not paid", ErrCannotBook)
	}
	if ticket.Type == nil || ticket.Type.IsRemote {
		return fmt.Errorf("%w: remote ticket does not grant hotel access", ErrCannotBook)
	}
	if !ticket.Type.IncludesHotel {
		return fmt.Errorf("%w: ticket type does not include hotel", ErrCannotBook)
	}

	return nil
}

func (s *BookingService) Create(ctx context.Context, userID, roomID int64) (*models.Booking, error) {
	if roomID <= 0 {
		return nil, fmt.Errorf("%w: room id must be positive", ErrBadRequest)
	}

	if err := checkEligibility(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID: userID,
		RoomID: roomID,
	}
	// Room existence and capacity are both decided inside the locked write,
	// existence first, so a missing room is always NotFound.
	if err := s.repo.CreateBookingWithLock(ctx, booking); err != nil {
		switch {
		case errors.Is(err, database.ErrRoomNotFound):
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, roomID)
		case errors.Is(err, database.ErrRoomFull):
			return nil, fmt.Errorf("%w: room %d is full", ErrCannotBook, roomID)
		case errors.Is(err, database.ErrDuplicateBooking):
			return nil, fmt.Errorf("%w: user already has a booking", ErrCannotBook)
		default:
			return nil, err
		}
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("user_id", userID).
		Int64("room_id", roomID).
		Msg("booking created")

	s.afterWrite(ctx, events.EventBookingCreated, booking)

	return booking, nil
}

func (s *BookingService) GetByUser(ctx context.Context, userID int64) (*models.BookingWithRoom, error) {
	booking, err := s.repo.GetBookingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: user has no booking", ErrNotFound)
	}
	return booking, nil
}

// Update moves an existing booking to another room. Only the room checks are
// re-run against the target; enrollment and ticket eligibility are not
// re-validated, matching the create-time guarantee that they already held.
func (s *BookingService) Update(ctx context.Context, userID, bookingID, roomID int64) (*models.Booking, error) {
	if roomID <= 0 {
		return nil, fmt.Errorf("%w: room id must be positive", ErrBadRequest)
	}
	if bookingID <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", ErrBadRequest)
	}

	existing, err := s.repo.GetBookingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: user has no booking", ErrNotFound)
	}
	if existing.ID != bookingID {
		return nil, fmt.Errorf("%w: booking does not belong to user", ErrCannotBook)
	}

	moved, err := s.repo.MoveBookingWithLock(ctx, bookingID, roomID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrRoomNotFound):
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, roomID)
		case errors.Is(err, database.ErrRoomFull):
			return nil, fmt.Errorf("%w: room %d is full", ErrCannotBook, roomID)
		case errors.Is(err, database.ErrBookingNotFound):
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
		default:
			return nil, err
		}
	}

	s.logger.Info().
		Int64("booking_id", moved.ID).
		Int64("user_id", userID).
		Int64("from_room_id", existing.RoomID).
		Int64("room_id", roomID).
		Msg("booking moved")

	// The previous room frees a slot, so its hotel snapshot is stale too.
	s.invalidateHotelByRoom(ctx, existing.RoomID)
	s.afterWrite(ctx, events.EventBookingRoomChanged, moved)

	return moved, nil
}

// afterWrite runs the non-critical side effects of a successful booking
// write: event publication, cache invalidation and export scheduling.
// Failures here are logged and never surfaced to the caller.
func (s *BookingService) afterWrite(ctx context.Context, eventType string, booking *models.Booking) {
	hotelID := s.invalidateHotelByRoom(ctx, booking.RoomID)

	if s.eventBus != nil {
		payload := events.BookingEventPayload{
			BookingID: booking.ID,
			UserID:    booking.UserID,
			RoomID:    booking.RoomID,
			HotelID:   hotelID,
			Timestamp: time.Now(),
		}
		if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
			s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
		}
	}

	if s.exportWorker != nil {
		if err := s.exportWorker.EnqueueExport(ctx); err != nil {
			s.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("export enqueue error")
		}
	}
}

func (s *BookingService) invalidateHotelByRoom(ctx context.Context, roomID int64) int64 {
	if s.cache == nil {
		return 0
	}

	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		s.logger.Error().Err(err).Int64("room_id", roomID).Msg("room lookup for cache invalidation failed")
		return 0
	}

	if err := s.cache.InvalidateHotelRooms(ctx, room.HotelID); err != nil {
		s.logger.Error().Err(err).Int64("hotel_id", room.HotelID).Msg("cache invalidation failed")
	}
	return room.HotelID
}
