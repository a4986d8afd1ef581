package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/model"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/repository"
)

// EventService serves the read-only event views.
type EventService struct {
	store repository.Store
	cache OccupancyCache
	log   *zap.Logger
}

// NewEventService constructs an EventService. cache may be nil.
func NewEventService(store repository.Store, cache OccupancyCache, log *zap.Logger) *EventService {
	return &EventService{store: store, cache: cache, log: log}
}

// List returns all events.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Availability returns the event with its current occupancy. The count may be
// up to one cache TTL stale; it never gates a reservation.
func (s *EventService) Availability(ctx context.Context, id int64) (*model.Availability, error) {
	ev, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		booked, found, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn("occupancy cache read failed", zap.Int64("event_id", id), zap.Error(err))
		} else if found {
			return model.NewAvailability(ev, booked), nil
		}
	}

	booked, err := s.store.CountBookings(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, id, booked); err != nil {
			s.log.Warn("occupancy cache write failed", zap.Int64("event_id", id), zap.Error(err))
		}
	}
	return model.NewAvailability(ev, booked), nil
}

// Bookings returns all bookings for an event in commit order.
func (s *EventService) Bookings(ctx context.Context, id int64) ([]model.Booking, error) {
	if _, err := s.getEvent(ctx, id); err != nil {
		return nil, err
	}
	bookings, err := s.store.ListBookings(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *EventService) getEvent(ctx context.Context, id int64) (*model.Event, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: event id must be a positive integer", ErrInvalidInput)
	}
	ev, err := s.store.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}
