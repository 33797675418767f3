package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybook/internal/availability"
	"staybook/internal/domain"
	"staybook/internal/events"
	"staybook/internal/metrics"
	"staybook/internal/models"

	"github.com/rs/zerolog"
)

type AvailabilityService struct {
	source   domain.HotelSource
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewAvailabilityService(source domain.HotelSource, eventBus domain.EventPublisher, logger *zerolog.Logger) *AvailabilityService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &AvailabilityService{
		source:   source,
		eventBus: eventBus,
		logger:   logger,
	}
}

// BlockedRanges returns the date ranges a date picker should disable.
func (s *AvailabilityService) BlockedRanges(ctx context.Context) ([]models.Interval, error) {
	reservations, err := s.reservations(ctx)
	if err != nil {
		return nil, err
	}
	return availability.BlockedRanges(reservations), nil
}

// CheckStay validates a proposed stay against current reservations.
func (s *AvailabilityService) CheckStay(ctx context.Context, checkIn, checkOut time.Time) error {
	// Reject inverted ranges before touching the upstream.
	if err := availability.ValidateStay(checkIn, checkOut, nil); err != nil {
		return err
	}

	reservations, err := s.reservations(ctx)
	if err != nil {
		return err
	}

	err = availability.ValidateStay(checkIn, checkOut, reservations)
	if errors.Is(err, availability.ErrDatesUnavailable) {
		metrics.IncReservationConflict()
		s.publishConflict(checkIn, checkOut)
	}
	return err
}

func (s *AvailabilityService) reservations(ctx context.Context) ([]models.Reservation, error) {
	records, err := s.source.ListReservations(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load reservations")
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return models.ReservationsFromRecords(records), nil
}

func (s *AvailabilityService) publishConflict(checkIn, checkOut time.Time) {
	if s.eventBus == nil {
		return
	}

	payload := events.ReservationConflictPayload{
		CheckIn:  checkIn.Format(models.DayLayout),
		CheckOut: checkOut.Format(models.DayLayout),
	}
	if err := s.eventBus.PublishJSON(events.EventReservationConflict, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", events.EventReservationConflict).Msg("publish event error")
	}
}
