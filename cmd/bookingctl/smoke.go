package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

type smokeStep struct {
	name string
	run  func(ctx context.Context) error
}

func runSmoke(ctx context.Context, args []string, out *printer) error {
	flagSet := pflag.NewFlagSet("smoke", pflag.ContinueOnError)
	addr := flagSet.String("addr", "", "server base URL (default: http://localhost:$PORT)")
	eventID := flagSet.Int64("event", 1, "event to reserve against")
	timeout := flagSet.Duration("timeout", 10*time.Second, "per-request timeout")
	if done, err := parseFlags(flagSet, args, out); done || err != nil {
		return err
	}
	if *addr == "" {
		*addr = defaultAddr()
	}

	c := newAPIClient(*addr, *timeout)
	first := "smoke-" + uuid.NewString()
	second := "smoke-" + uuid.NewString()
	var firstCreated bool

	steps := []smokeStep{
		{
			name: "GET /health reports a connected database",
			run: func(ctx context.Context) error {
				status, h, err := c.health(ctx)
				if err != nil {
					return fmt.Errorf("%w (is the server running at %s?)", err, *addr)
				}
				if status != http.StatusOK || h.Status != "OK" {
					return fmt.Errorf("got %d status=%q database=%q", status, h.Status, h.Database)
				}
				return nil
			},
		},
		{
			name: "unknown route returns 404",
			run: func(ctx context.Context) error {
				status, _, err := c.do(ctx, http.MethodGet, "/api/does-not-exist", nil)
				if err != nil {
					return err
				}
				return expectStatus(status, http.StatusNotFound)
			},
		},
		{
			name: "reserve without user_id returns 400",
			run: func(ctx context.Context) error {
				status, _, err := c.do(ctx, http.MethodPost, "/api/bookings/reserve",
					fmt.Sprintf(`{"event_id":%d}`, *eventID))
				if err != nil {
					return err
				}
				return expectStatus(status, http.StatusBadRequest)
			},
		},
		{
			name: "reserve for a new user",
			run: func(ctx context.Context) error {
				status, b, msg, err := c.reserve(ctx, *eventID, first)
				if err != nil {
					return err
				}
				switch status {
				case http.StatusCreated:
					firstCreated = true
					out.Info("booking #%d at %s", b.ID, b.CreatedAt.Format(time.RFC3339))
					return nil
				case http.StatusConflict:
					out.Info("%s", msg)
					return nil
				}
				return fmt.Errorf("got %d: %s", status, msg)
			},
		},
		{
			name: "reserve for a second user",
			run: func(ctx context.Context) error {
				status, _, msg, err := c.reserve(ctx, *eventID, second)
				if err != nil {
					return err
				}
				if status != http.StatusCreated && status != http.StatusConflict {
					return fmt.Errorf("got %d: %s", status, msg)
				}
				return nil
			},
		},
		{
			name: "repeat reservation returns 409",
			run: func(ctx context.Context) error {
				if !firstCreated {
					out.Warn("skipped: the first reservation was not created")
					return nil
				}
				status, _, msg, err := c.reserve(ctx, *eventID, first)
				if err != nil {
					return err
				}
				if status != http.StatusConflict {
					return fmt.Errorf("got %d: %s", status, msg)
				}
				out.Info("%s", msg)
				return nil
			},
		},
	}

	out.Section("Smoke test against %s (event %d)", *addr, *eventID)
	failed := 0
	for _, s := range steps {
		if err := s.run(ctx); err != nil {
			out.Fail("%s: %v", s.name, err)
			failed++
			continue
		}
		out.OK("%s", s.name)
	}

	out.Section("Result")
	if failed > 0 {
		out.Fail("%d of %d checks failed", failed, len(steps))
		return fmt.Errorf("smoke test failed")
	}
	out.OK("all %d checks passed", len(steps))
	return nil
}

func expectStatus(got, want int) error {
	if got != want {
		return fmt.Errorf("got %d, want %d", got, want)
	}
	return nil
}
