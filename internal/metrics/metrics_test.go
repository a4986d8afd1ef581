package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	require.NotNil(t, m)

	m.ObserveReservation("created", time.Millisecond)
	m.ObserveHTTP("POST", "/api/bookings/reserve", 201, time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["booking_reservations_total"])
	assert.True(t, names["booking_reservation_duration_seconds"])
	assert.True(t, names["booking_http_requests_total"])
	assert.True(t, names["booking_http_request_duration_seconds"])
}

func TestObserveReservation_CountsByOutcome(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveReservation("created", 2*time.Millisecond)
	m.ObserveReservation("created", 3*time.Millisecond)
	m.ObserveReservation("sold_out", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("sold_out")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("already_booked")))
}

func TestObserveHTTP_StatusLabel(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveHTTP("POST", "/api/bookings/reserve", 409, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/bookings/reserve", "409")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveReservation("created", time.Millisecond)
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	})
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}
