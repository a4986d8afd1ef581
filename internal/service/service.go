// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
)

// Domain errors surfaced to the handler layer. Every other error returned by
// this package is a wrapped store failure.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrEventNotFound = errors.New("event not found")
	ErrAlreadyBooked = errors.New("user already holds a booking for this event")
	ErrSoldOut       = errors.New("all seats for this event are booked")
)

// Outcome is the classification of a reservation attempt.
type Outcome string

const (
	OutcomeCreated       Outcome = "created"
	OutcomeInvalidInput  Outcome = "invalid_input"
	OutcomeEventNotFound Outcome = "event_not_found"
	OutcomeAlreadyBooked Outcome = "already_booked"
	OutcomeSoldOut       Outcome = "sold_out"
	OutcomeFailed        Outcome = "failed"
)

// Classify maps the error returned by Reserve to its Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeCreated
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, ErrEventNotFound):
		return OutcomeEventNotFound
	case errors.Is(err, ErrAlreadyBooked):
		return OutcomeAlreadyBooked
	case errors.Is(err, ErrSoldOut):
		return OutcomeSoldOut
	default:
		return OutcomeFailed
	}
}

// Rejected reports whether the outcome is a business rejection, as opposed
// to a success or an operational failure.
func (o Outcome) Rejected() bool {
	switch o {
	case OutcomeInvalidInput, OutcomeEventNotFound, OutcomeAlreadyBooked, OutcomeSoldOut:
		return true
	}
	return false
}

// OccupancyCache caches booked seat counts for the availability read path.
type OccupancyCache interface {
	Get(ctx context.Context, eventID int64) (booked int, found bool, err error)
	Set(ctx context.Context, eventID int64, booked int) error
	Invalidate(ctx context.Context, eventID int64) error
}
