package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/config"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/model"
)

// apiClient is a minimal JSON client for the booking API.
type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string, timeout time.Duration) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// defaultAddr points at the server configured by the local environment.
func defaultAddr() string {
	return "http://localhost:" + config.Load().Server.Port
}

// do sends body (if non-nil) as JSON and returns the status and raw body.
func (c *apiClient) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			buf, err := json.Marshal(b)
			if err != nil {
				return 0, nil, fmt.Errorf("encode request: %w", err)
			}
			reader = bytes.NewReader(buf)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

func (c *apiClient) health(ctx context.Context) (int, model.HealthResponse, error) {
	var h model.HealthResponse
	status, data, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return 0, h, err
	}
	_ = json.Unmarshal(data, &h)
	return status, h, nil
}

// reserve returns the HTTP status plus either the booking or the error message.
func (c *apiClient) reserve(ctx context.Context, eventID int64, userID string) (int, *model.Booking, string, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/api/bookings/reserve",
		model.ReserveRequest{EventID: eventID, UserID: userID})
	if err != nil {
		return 0, nil, "", err
	}
	if status == http.StatusCreated {
		var resp model.ReserveResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return status, nil, "", fmt.Errorf("decode booking: %w", err)
		}
		return status, resp.Booking, "", nil
	}
	return status, nil, errorMessage(data), nil
}

func (c *apiClient) availability(ctx context.Context, eventID int64) (*model.Availability, error) {
	status, data, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/events/%d", eventID), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("GET /api/events/%d: %d %s", eventID, status, errorMessage(data))
	}
	var a model.Availability
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	return &a, nil
}

func errorMessage(data []byte) string {
	var e model.ErrorResponse
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(data))
}
