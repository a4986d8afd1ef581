package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAvailability(t *testing.T) {
	tests := []struct {
		name          string
		seats, booked int
		wantRemaining int
		wantSoldOut   bool
	}{
		{name: "empty event", seats: 10, booked: 0, wantRemaining: 10},
		{name: "partially booked", seats: 10, booked: 7, wantRemaining: 3},
		{name: "exactly full", seats: 10, booked: 10, wantRemaining: 0, wantSoldOut: true},
		{name: "overbooked legacy data clamps to zero", seats: 2, booked: 3, wantRemaining: 0, wantSoldOut: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{ID: 7, Name: "Concert", TotalSeats: tt.seats}

			a := NewAvailability(e, tt.booked)

			assert.Equal(t, int64(7), a.EventID)
			assert.Equal(t, "Concert", a.Name)
			assert.Equal(t, tt.seats, a.TotalSeats)
			assert.Equal(t, tt.booked, a.Booked)
			assert.Equal(t, tt.wantRemaining, a.Remaining)
			assert.Equal(t, tt.wantSoldOut, a.SoldOut)
		})
	}
}

func TestReserveRequest_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    ReserveRequest
		wantErr bool
	}{
		{name: "number", body: `{"event_id":3,"user_id":"alice"}`, want: ReserveRequest{EventID: 3, UserID: "alice"}},
		{name: "quoted number", body: `{"event_id":"3","user_id":"alice"}`, want: ReserveRequest{EventID: 3, UserID: "alice"}},
		{name: "negative", body: `{"event_id":-1,"user_id":"alice"}`, want: ReserveRequest{EventID: -1, UserID: "alice"}},
		{name: "missing fields", body: `{}`, want: ReserveRequest{}},
		{name: "fraction", body: `{"event_id":1.5,"user_id":"alice"}`, wantErr: true},
		{name: "non-numeric string", body: `{"event_id":"one","user_id":"alice"}`, wantErr: true},
		{name: "unknown field", body: `{"event_id":1,"user_id":"alice","seat":"A1"}`, wantErr: true},
		{name: "user id not a string", body: `{"event_id":1,"user_id":7}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ReserveRequest
			err := json.Unmarshal([]byte(tt.body), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
