// Package repository implements all database queries for the seat booking service.
// It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/model"
)

// SQLSTATE unique_violation.
const uniqueViolation = "23505"

// PostgresStore is the PostgreSQL-backed Store.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore over an existing pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

// InTx runs fn inside a READ COMMITTED transaction.
//
// Isolation alone does not protect the capacity check: two transactions could
// both count N-1 bookings and both insert. LockEvent therefore takes
// SELECT … FOR UPDATE on the event row, which queues every other reservation
// for the same event behind this one until COMMIT or ROLLBACK. The count seen
// after the lock is final for the lifetime of the transaction.
func (s *PostgresStore) InTx(ctx context.Context, fn func(Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if err = fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetEvent returns a single event or ErrNotFound.
func (s *PostgresStore) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	var e model.Event
	err := s.db.QueryRow(ctx,
		`SELECT id, name, total_seats FROM events WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Name, &e.TotalSeats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// ListEvents returns all events ordered by id.
func (s *PostgresStore) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, total_seats FROM events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.TotalSeats); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountBookings is the occupancy read outside any reservation transaction.
func (s *PostgresStore) CountBookings(ctx context.Context, eventID int64) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE event_id = $1`,
		eventID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

// ListBookings returns all bookings for an event in commit order.
func (s *PostgresStore) ListBookings(ctx context.Context, eventID int64) ([]model.Booking, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, event_id, user_id, created_at
		 FROM bookings
		 WHERE event_id = $1
		 ORDER BY id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.EventID, &b.UserID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// pgTx is the Tx handed to InTx callbacks.
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) LockEvent(ctx context.Context, eventID int64) (*model.Event, error) {
	var e model.Event
	err := t.tx.QueryRow(ctx,
		`SELECT id, name, total_seats
		 FROM events
		 WHERE id = $1
		 FOR UPDATE`,
		eventID,
	).Scan(&e.ID, &e.Name, &e.TotalSeats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}
	return &e, nil
}

func (t *pgTx) HasBooking(ctx context.Context, eventID int64, userID string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check existing booking: %w", err)
	}
	return exists, nil
}

func (t *pgTx) Occupancy(ctx context.Context, eventID int64) (int, error) {
	var n int
	if err := t.tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE event_id = $1`,
		eventID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (t *pgTx) InsertBooking(ctx context.Context, eventID int64, userID string) (*model.Booking, error) {
	var b model.Booking
	err := t.tx.QueryRow(ctx,
		`INSERT INTO bookings (event_id, user_id)
		 VALUES ($1, $2)
		 RETURNING id, event_id, user_id, created_at`,
		eventID, userID,
	).Scan(&b.ID, &b.EventID, &b.UserID, &b.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateBooking
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
