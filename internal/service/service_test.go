package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/model"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/repository"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Outcome
		rejected bool
	}{
		{name: "nil is created", err: nil, expected: OutcomeCreated},
		{name: "invalid input", err: fmt.Errorf("%w: user_id is required", ErrInvalidInput), expected: OutcomeInvalidInput, rejected: true},
		{name: "event not found", err: ErrEventNotFound, expected: OutcomeEventNotFound, rejected: true},
		{name: "already booked", err: ErrAlreadyBooked, expected: OutcomeAlreadyBooked, rejected: true},
		{name: "sold out", err: ErrSoldOut, expected: OutcomeSoldOut, rejected: true},
		{name: "wrapped sold out", err: fmt.Errorf("reserve: %w", ErrSoldOut), expected: OutcomeSoldOut, rejected: true},
		{name: "store error", err: errors.New("connection reset"), expected: OutcomeFailed},
		{name: "cancelled", err: context.Canceled, expected: OutcomeFailed},
		{name: "raw repository not found is not a rejection", err: repository.ErrNotFound, expected: OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.rejected, got.Rejected())
		})
	}
}

// === Mock implementations ===

// MockTx implements repository.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) LockEvent(ctx context.Context, eventID int64) (*model.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockTx) HasBooking(ctx context.Context, eventID int64, userID string) (bool, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTx) Occupancy(ctx context.Context, eventID int64) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *MockTx) InsertBooking(ctx context.Context, eventID int64, userID string) (*model.Booking, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

// txStore hands a fixed Tx to every InTx call. Any other Store method panics.
type txStore struct {
	repository.Store
	tx    repository.Tx
	calls int
}

func (s *txStore) InTx(ctx context.Context, fn func(repository.Tx) error) error {
	s.calls++
	return fn(s.tx)
}

// fakeCache is an in-memory OccupancyCache that records invalidations.
type fakeCache struct {
	mu          sync.Mutex
	counts      map[int64]int
	invalidated []int64
	getErr      error
	setErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: make(map[int64]int)}
}

func (c *fakeCache) Get(ctx context.Context, eventID int64) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	n, ok := c.counts[eventID]
	return n, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, eventID int64, booked int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.counts[eventID] = booked
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, eventID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, eventID)
	c.invalidated = append(c.invalidated, eventID)
	return nil
}

func (c *fakeCache) invalidations() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.invalidated...)
}
