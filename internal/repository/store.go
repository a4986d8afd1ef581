package repository

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/model"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateBooking is the store's constraint-violation kind for the
// (event_id, user_id) uniqueness constraint. It is distinct from every other
// insert failure so callers can branch on it with errors.Is.
var ErrDuplicateBooking = errors.New("booking already exists for event and user")

// Tx is the set of reads and writes available inside one reservation
// transaction. Implementations must hold the event lock taken by LockEvent
// until the transaction ends.
type Tx interface {
	// LockEvent loads the event and locks it against concurrent reservation
	// transactions. Returns ErrNotFound if the event does not exist.
	LockEvent(ctx context.Context, eventID int64) (*model.Event, error)

	// HasBooking reports whether the user already holds a booking for the event.
	HasBooking(ctx context.Context, eventID int64, userID string) (bool, error)

	// Occupancy counts the bookings visible to this transaction for the event.
	Occupancy(ctx context.Context, eventID int64) (int, error)

	// InsertBooking creates the booking with a store-assigned id and timestamp.
	// Returns ErrDuplicateBooking on a uniqueness violation.
	InsertBooking(ctx context.Context, eventID int64, userID string) (*model.Booking, error)
}

// Store is the shared booking store.
type Store interface {
	// InTx runs fn in a single transaction. The transaction commits only when
	// fn returns nil; any error (or a commit failure) leaves no effects behind.
	InTx(ctx context.Context, fn func(Tx) error) error

	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	CountBookings(ctx context.Context, eventID int64) (int, error)
	ListBookings(ctx context.Context, eventID int64) ([]model.Booking, error)
	Ping(ctx context.Context) error
}
