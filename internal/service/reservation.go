package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/metrics"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/model"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/repository"
)

// reserveInput carries the validation rules for a reservation attempt. Only a
// missing event_id is rejected here; any other id is resolved by the lookup.
type reserveInput struct {
	EventID int64  `json:"event_id" validate:"ne=0"`
	UserID  string `json:"user_id" validate:"required,max=255"`
}

// ReservationService runs the reservation commit protocol.
type ReservationService struct {
	store    repository.Store
	cache    OccupancyCache
	metrics  *metrics.Metrics
	log      *zap.Logger
	validate *validator.Validate
}

// NewReservationService constructs a ReservationService. cache and m may be nil.
func NewReservationService(
	store repository.Store,
	cache OccupancyCache,
	m *metrics.Metrics,
	log *zap.Logger,
) *ReservationService {
	return &ReservationService{
		store:    store,
		cache:    cache,
		metrics:  m,
		log:      log,
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Reserve attempts to book one seat of eventID for userID.
//
// The returned error is nil on success, one of the package's domain errors on
// a rejection, or a wrapped store error otherwise; use Classify to map it. No
// outcome other than success leaves a booking behind.
func (s *ReservationService) Reserve(ctx context.Context, eventID int64, userID string) (*model.Booking, error) {
	start := time.Now()
	booking, err := s.reserve(ctx, eventID, userID)
	outcome := Classify(err)
	s.metrics.ObserveReservation(string(outcome), time.Since(start))

	fields := []zap.Field{
		zap.Int64("event_id", eventID),
		zap.String("user_id", userID),
		zap.String("outcome", string(outcome)),
	}
	switch {
	case err == nil:
		s.log.Info("seat reserved", append(fields, zap.Int64("booking_id", booking.ID))...)
		s.invalidate(ctx, eventID)
	case outcome.Rejected():
		s.log.Info("reservation rejected", fields...)
	default:
		s.log.Error("reservation failed", append(fields, zap.Error(err))...)
	}
	return booking, err
}

func (s *ReservationService) reserve(ctx context.Context, eventID int64, userID string) (*model.Booking, error) {
	if err := s.validateInput(eventID, userID); err != nil {
		return nil, err
	}

	var booking *model.Booking
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		// Every reservation for this event queues here until we finish.
		ev, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		exists, err := tx.HasBooking(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyBooked
		}

		booked, err := tx.Occupancy(ctx, eventID)
		if err != nil {
			return err
		}
		if booked >= ev.TotalSeats {
			return ErrSoldOut
		}

		b, err := tx.InsertBooking(ctx, eventID, userID)
		if err != nil {
			// A concurrent attempt by the same user committed between our
			// check and insert; the unique constraint caught it.
			if errors.Is(err, repository.ErrDuplicateBooking) {
				return ErrAlreadyBooked
			}
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEventNotFound) ||
			errors.Is(err, ErrAlreadyBooked) ||
			errors.Is(err, ErrSoldOut) {
			return nil, err
		}
		return nil, fmt.Errorf("reserve seat: %w", err)
	}
	return booking, nil
}

func (s *ReservationService) validateInput(eventID int64, userID string) error {
	err := s.validate.Struct(reserveInput{EventID: eventID, UserID: userID})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "ne":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}

func (s *ReservationService) invalidate(ctx context.Context, eventID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), eventID); err != nil {
		s.log.Warn("occupancy cache invalidation failed",
			zap.Int64("event_id", eventID), zap.Error(err))
	}
}
