// Package model defines the core domain types for the seat booking service.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Event is a bookable event with a fixed number of fungible seats.
// Events are provisioned out-of-band and never mutated by the booking path.
type Event struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	TotalSeats int    `json:"total_seats"`
}

// Booking is one user's seat at one event. CreatedAt is assigned by the store.
type Booking struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Availability is the occupancy of an event at read time.
type Availability struct {
	EventID    int64  `json:"event_id"`
	Name       string `json:"name"`
	TotalSeats int    `json:"total_seats"`
	Booked     int    `json:"booked"`
	Remaining  int    `json:"remaining"`
	SoldOut    bool   `json:"sold_out"`
}

// NewAvailability derives the remaining seat count for e given booked seats.
func NewAvailability(e *Event, booked int) *Availability {
	remaining := e.TotalSeats - booked
	if remaining < 0 {
		remaining = 0
	}
	return &Availability{
		EventID:    e.ID,
		Name:       e.Name,
		TotalSeats: e.TotalSeats,
		Booked:     booked,
		Remaining:  remaining,
		SoldOut:    remaining == 0,
	}
}

// ReserveRequest is the payload for reserving a seat.
type ReserveRequest struct {
	EventID int64  `json:"event_id"`
	UserID  string `json:"user_id"`
}

// UnmarshalJSON accepts event_id as a JSON number or a quoted integer and
// rejects unknown fields.
func (r *ReserveRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		EventID json.Number `json:"event_id"`
		UserID  string      `json:"user_id"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	var id int64
	if raw.EventID != "" {
		var err error
		id, err = strconv.ParseInt(raw.EventID.String(), 10, 64)
		if err != nil {
			return fmt.Errorf("event_id must be an integer, got %s", raw.EventID)
		}
	}
	*r = ReserveRequest{EventID: id, UserID: raw.UserID}
	return nil
}

// ReserveResponse is returned when a reservation is committed.
type ReserveResponse struct {
	Success bool     `json:"success"`
	Booking *Booking `json:"booking"`
	Message string   `json:"message"`
}

// HealthResponse reports store connectivity.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BookingResult summarises the outcome of a single reservation attempt.
// Used in the concurrent load harness.
type BookingResult struct {
	UserID     string
	StatusCode int
	Error      error
}
