package service

import (
	"context"
	"errors"
	"fmt"

	"roomdesk/internal/database"
	"roomdesk/internal/domain"
	"roomdesk/internal/models"

	"github.com/rs/zerolog"
)

// HotelService serves the browsing side of the booking flow. Room listings
// carry live occupancy counts and go through the cache because they are read
// far more often than they change.
type HotelService struct {
	repo   domain.Repository
	cache  domain.CacheRepository
	logger *zerolog.Logger
}

func NewHotelService(repo domain.Repository, cache domain.CacheRepository, logger *zerolog.Logger) *HotelService {
	return &HotelService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// ListHotels is gated by the same eligibility chain as booking itself: users
// without hotel access never see the catalogue. An empty catalogue is
// reported as not-found rather than an empty page.
func (s *HotelService) ListHotels(ctx context.Context, userID int64) ([]*models.Hotel, error) {
	if err := checkEligibility(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	hotels, err := s.repo.GetHotels(ctx)
	if err != nil {
		return nil, err
	}
	if len(hotels) == 0 {
		return nil, fmt.Errorf("%w: no hotels", ErrNotFound)
	}
	return hotels, nil
}

func (s *HotelService) ListHotelRooms(ctx context.Context, userID, hotelID int64) ([]*models.RoomWithOccupancy, error) {
	if hotelID <= 0 {
		return nil, fmt.Errorf("%w: hotel id must be positive", ErrBadRequest)
	}

	if err := checkEligibility(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.GetHotelRooms(ctx, hotelID)
		if err != nil {
			s.logger.Error().Err(err).Int64("hotel_id", hotelID).Msg("room cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	rooms, err := s.repo.GetHotelRooms(ctx, hotelID)
	if err != nil {
		if errors.Is(err, database.ErrHotelNotFound) {
			return nil, fmt.Errorf("%w: hotel %d", ErrNotFound, hotelID)
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetHotelRooms(ctx, hotelID, rooms); err != nil {
			s.logger.Error().Err(err).Int64("hotel_id", hotelID).Msg("room cache write failed")
		}
	}

	return rooms, nil
}
