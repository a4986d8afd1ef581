package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/model"
)

// Queries used by the provisioning CLI. The reservation path never calls these.

// RecentBooking is a booking joined with its event name.
type RecentBooking struct {
	model.Booking
	EventName string
}

// Stats is a row count summary of both relations.
type Stats struct {
	Events   int
	Bookings int
}

// CreateEvent provisions a new event.
func (s *PostgresStore) CreateEvent(ctx context.Context, name string, totalSeats int) (*model.Event, error) {
	e := model.Event{Name: name, TotalSeats: totalSeats}
	err := s.db.QueryRow(ctx,
		`INSERT INTO events (name, total_seats) VALUES ($1, $2) RETURNING id`,
		name, totalSeats,
	).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return &e, nil
}

// FindEventByName returns the oldest event with the given name or ErrNotFound.
func (s *PostgresStore) FindEventByName(ctx context.Context, name string) (*model.Event, error) {
	var e model.Event
	err := s.db.QueryRow(ctx,
		`SELECT id, name, total_seats FROM events WHERE name = $1 ORDER BY id LIMIT 1`,
		name,
	).Scan(&e.ID, &e.Name, &e.TotalSeats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &e, nil
}

// ExistingTables returns which of the service's tables exist in the public schema.
func (s *PostgresStore) ExistingTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT table_name
		 FROM information_schema.tables
		 WHERE table_schema = 'public'
		   AND table_name IN ('events', 'bookings')
		 ORDER BY table_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// ServerTime returns the database clock, used as a connectivity probe.
func (s *PostgresStore) ServerTime(ctx context.Context) (string, error) {
	var now string
	if err := s.db.QueryRow(ctx, `SELECT now()::text`).Scan(&now); err != nil {
		return "", fmt.Errorf("query server time: %w", err)
	}
	return now, nil
}

// Stats counts rows in both relations.
func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM events), (SELECT COUNT(*) FROM bookings)`,
	).Scan(&st.Events, &st.Bookings)
	if err != nil {
		return Stats{}, fmt.Errorf("count rows: %w", err)
	}
	return st, nil
}

// RecentBookings returns the latest bookings across all events.
func (s *PostgresStore) RecentBookings(ctx context.Context, limit int) ([]RecentBooking, error) {
	rows, err := s.db.Query(ctx,
		`SELECT b.id, b.event_id, b.user_id, b.created_at, e.name
		 FROM bookings b
		 JOIN events e ON b.event_id = e.id
		 ORDER BY b.created_at DESC, b.id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}
	defer rows.Close()

	var out []RecentBooking
	for rows.Next() {
		var rb RecentBooking
		if err := rows.Scan(&rb.ID, &rb.EventID, &rb.UserID, &rb.CreatedAt, &rb.EventName); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, rb)
	}
	return out, rows.Err()
}
