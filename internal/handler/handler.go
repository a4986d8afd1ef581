// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/model"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/service"
)

// Reserver commits reservations.
type Reserver interface {
	Reserve(ctx context.Context, eventID int64, userID string) (*model.Booking, error)
}

// EventReader serves the read-only event views.
type EventReader interface {
	List(ctx context.Context) ([]model.Event, error)
	Availability(ctx context.Context, id int64) (*model.Availability, error)
	Bookings(ctx context.Context, id int64) ([]model.Booking, error)
}

// HealthChecker reports store connectivity.
type HealthChecker interface {
	Ping(ctx context.Context) bool
}

// Handler holds all HTTP handlers for the booking API.
type Handler struct {
	reservations Reserver
	events       EventReader
	health       HealthChecker
	log          *zap.Logger
}

// New constructs a Handler.
func New(reservations Reserver, events EventReader, health HealthChecker, log *zap.Logger) *Handler {
	return &Handler{
		reservations: reservations,
		events:       events,
		health:       health,
		log:          log,
	}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func eventIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// Reserve handles POST /api/bookings/reserve
// Attempts to book one seat for the user. Failures are already logged by the
// service, so only the status mapping happens here.
func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req model.ReserveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	booking, err := h.reservations.Reserve(r.Context(), req.EventID, req.UserID)
	switch service.Classify(err) {
	case service.OutcomeCreated:
		writeJSON(w, http.StatusCreated, model.ReserveResponse{
			Success: true,
			Booking: booking,
			Message: "seat reserved",
		})
	case service.OutcomeInvalidInput:
		writeError(w, http.StatusBadRequest, err.Error())
	case service.OutcomeEventNotFound:
		writeError(w, http.StatusNotFound, service.ErrEventNotFound.Error())
	case service.OutcomeAlreadyBooked:
		writeError(w, http.StatusConflict, service.ErrAlreadyBooked.Error())
	case service.OutcomeSoldOut:
		writeError(w, http.StatusConflict, service.ErrSoldOut.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ListEvents handles GET /api/events
// Returns a JSON array of all events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		h.log.Error("list events failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if events == nil {
		events = []model.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /api/events/{id}
// Returns the event together with its current seat availability.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	availability, err := h.events.Availability(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		h.log.Error("get event failed", zap.Int64("event_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, availability)
}

// ListBookings handles GET /api/events/{id}/bookings
// Returns all bookings for a given event.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	bookings, err := h.events.Bookings(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		h.log.Error("list bookings failed", zap.Int64("event_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}

	writeJSON(w, http.StatusOK, bookings)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.health.Ping(r.Context()) {
		writeJSON(w, http.StatusInternalServerError, model.HealthResponse{
			Status:   "ERROR",
			Database: "disconnected",
		})
		return
	}
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "OK", Database: "connected"})
}

// ─── Fallbacks ────────────────────────────────────────────────────────────────

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "route not found")
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
