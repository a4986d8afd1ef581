package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/repository"
)

func TestEventService_List(t *testing.T) {
	store := repository.NewMemoryStore()
	store.AddEvent("A", 1)
	store.AddEvent("B", 2)
	svc := NewEventService(store, nil, zap.NewNop())

	events, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "A", events[0].Name)
	assert.Equal(t, "B", events[1].Name)
}

func TestEventService_Availability(t *testing.T) {
	ctx := context.Background()

	t.Run("counts bookings and fills the cache on a miss", func(t *testing.T) {
		store := repository.NewMemoryStore()
		ev := store.AddEvent("Concert", 3)
		cache := newFakeCache()
		res := NewReservationService(store, nil, nil, zap.NewNop())
		_, err := res.Reserve(ctx, ev.ID, "alice")
		require.NoError(t, err)

		svc := NewEventService(store, cache, zap.NewNop())
		a, err := svc.Availability(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, a.Booked)
		assert.Equal(t, 2, a.Remaining)
		assert.False(t, a.SoldOut)

		n, found, _ := cache.Get(ctx, ev.ID)
		assert.True(t, found)
		assert.Equal(t, 1, n)
	})

	t.Run("serves a cache hit", func(t *testing.T) {
		store := repository.NewMemoryStore()
		ev := store.AddEvent("Concert", 3)
		cache := newFakeCache()
		require.NoError(t, cache.Set(ctx, ev.ID, 3))

		svc := NewEventService(store, cache, zap.NewNop())
		a, err := svc.Availability(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, a.Booked)
		assert.True(t, a.SoldOut)
	})

	t.Run("falls back to the store when the cache fails", func(t *testing.T) {
		store := repository.NewMemoryStore()
		ev := store.AddEvent("Concert", 3)
		cache := newFakeCache()
		cache.getErr = errors.New("redis down")
		cache.setErr = errors.New("redis down")

		svc := NewEventService(store, cache, zap.NewNop())
		a, err := svc.Availability(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, a.Booked)
		assert.Equal(t, 3, a.Remaining)
	})

	t.Run("reservation invalidates the cached count", func(t *testing.T) {
		store := repository.NewMemoryStore()
		ev := store.AddEvent("Concert", 3)
		cache := newFakeCache()
		events := NewEventService(store, cache, zap.NewNop())
		res := NewReservationService(store, cache, nil, zap.NewNop())

		a, err := events.Availability(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, a.Booked)

		_, err = res.Reserve(ctx, ev.ID, "alice")
		require.NoError(t, err)

		a, err = events.Availability(ctx, ev.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, a.Booked)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc := NewEventService(repository.NewMemoryStore(), nil, zap.NewNop())
		_, err := svc.Availability(ctx, 42)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("non-positive id", func(t *testing.T) {
		svc := NewEventService(repository.NewMemoryStore(), nil, zap.NewNop())
		_, err := svc.Availability(ctx, 0)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestEventService_Bookings(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	ev := store.AddEvent("Concert", 5)
	res := NewReservationService(store, nil, nil, zap.NewNop())
	for _, u := range []string{"alice", "bob", "carol"} {
		_, err := res.Reserve(ctx, ev.ID, u)
		require.NoError(t, err)
	}

	svc := NewEventService(store, nil, zap.NewNop())
	bookings, err := svc.Bookings(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 3)
	assert.Equal(t, "alice", bookings[0].UserID)
	assert.Equal(t, "carol", bookings[2].UserID)
	assert.Less(t, bookings[0].ID, bookings[1].ID)

	_, err = svc.Bookings(ctx, 999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

type stubPinger struct {
	err   error
	block bool
}

func (p stubPinger) Ping(ctx context.Context) error {
	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.err
}

func TestHealthService_Ping(t *testing.T) {
	tests := []struct {
		name     string
		pinger   stubPinger
		expected bool
	}{
		{name: "reachable", pinger: stubPinger{}, expected: true},
		{name: "unreachable", pinger: stubPinger{err: errors.New("dial tcp: refused")}, expected: false},
		{name: "times out", pinger: stubPinger{block: true}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHealthService(tt.pinger, 50*time.Millisecond, zap.NewNop())
			assert.Equal(t, tt.expected, svc.Ping(context.Background()))
		})
	}
}
