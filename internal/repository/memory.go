package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/model"
)

// MemoryStore is an in-process Store with the same transactional contract as
// PostgresStore. A single mutex is held for the whole of InTx, which stands in
// for the event row lock (coarser: it serialises all events, not one).
// Inserts are staged and become visible only on commit.
type MemoryStore struct {
	mu            sync.Mutex
	events        map[int64]model.Event
	bookings      []model.Booking
	nextEventID   int64
	nextBookingID int64
	now           func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events: make(map[int64]model.Event),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var _ Store = (*MemoryStore)(nil)

// AddEvent provisions an event and returns it with its assigned id.
func (s *MemoryStore) AddEvent(name string, totalSeats int) *model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	e := model.Event{ID: s.nextEventID, Name: name, TotalSeats: totalSeats}
	s.events[e.ID] = e
	return &e
}

// InTx runs fn while holding the store lock. Staged inserts are applied only
// if fn returns nil and ctx is still live.
func (s *MemoryStore) InTx(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{s: s}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.bookings = append(s.bookings, tx.staged...)
	return nil
}

func (s *MemoryStore) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (s *MemoryStore) ListEvents(ctx context.Context) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (s *MemoryStore) CountBookings(ctx context.Context, eventID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.countLocked(eventID, nil), nil
}

func (s *MemoryStore) ListBookings(ctx context.Context, eventID int64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Booking
	for _, b := range s.bookings {
		if b.EventID == eventID {
			out = append(out, b)
		}
	}
	return out, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) countLocked(eventID int64, staged []model.Booking) int {
	n := 0
	for _, b := range s.bookings {
		if b.EventID == eventID {
			n++
		}
	}
	for _, b := range staged {
		if b.EventID == eventID {
			n++
		}
	}
	return n
}

func (s *MemoryStore) findLocked(eventID int64, userID string, staged []model.Booking) bool {
	for _, b := range s.bookings {
		if b.EventID == eventID && b.UserID == userID {
			return true
		}
	}
	for _, b := range staged {
		if b.EventID == eventID && b.UserID == userID {
			return true
		}
	}
	return false
}

// memTx runs with MemoryStore.mu held.
type memTx struct {
	s      *MemoryStore
	staged []model.Booking
}

func (t *memTx) LockEvent(ctx context.Context, eventID int64) (*model.Event, error) {
	e, ok := t.s.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (t *memTx) HasBooking(ctx context.Context, eventID int64, userID string) (bool, error) {
	return t.s.findLocked(eventID, userID, t.staged), nil
}

func (t *memTx) Occupancy(ctx context.Context, eventID int64) (int, error) {
	return t.s.countLocked(eventID, t.staged), nil
}

func (t *memTx) InsertBooking(ctx context.Context, eventID int64, userID string) (*model.Booking, error) {
	if _, ok := t.s.events[eventID]; !ok {
		return nil, ErrNotFound
	}
	if t.s.findLocked(eventID, userID, t.staged) {
		return nil, ErrDuplicateBooking
	}

	// Ids are consumed even if the transaction rolls back, like a sequence.
	t.s.nextBookingID++
	b := model.Booking{
		ID:        t.s.nextBookingID,
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: t.s.now(),
	}
	t.staged = append(t.staged, b)
	return &b, nil
}
