package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/model"
)

func runLoad(ctx context.Context, args []string, out *printer) error {
	flagSet := pflag.NewFlagSet("load", pflag.ContinueOnError)
	addr := flagSet.String("addr", "", "server base URL (default: http://localhost:$PORT)")
	eventID := flagSet.Int64("event", 1, "event to reserve against")
	users := flagSet.Int("users", 50, "number of concurrent reservation attempts")
	sameUser := flagSet.Bool("same-user", false, "send every attempt with one user id")
	timeout := flagSet.Duration("timeout", 30*time.Second, "per-request timeout")
	if done, err := parseFlags(flagSet, args, out); done || err != nil {
		return err
	}
	if *users <= 0 {
		return fmt.Errorf("--users must be positive, got %d", *users)
	}
	if *addr == "" {
		*addr = defaultAddr()
	}

	c := newAPIClient(*addr, *timeout)

	before, err := c.availability(ctx, *eventID)
	if err != nil {
		out.Fail("%v", err)
		return err
	}
	out.Section("Event %d %q: %d/%d seats booked", before.EventID, before.Name, before.Booked, before.TotalSeats)

	ids := make([]string, *users)
	shared := "load-" + uuid.NewString()
	for i := range ids {
		if *sameUser {
			ids[i] = shared
		} else {
			ids[i] = "load-" + uuid.NewString()
		}
	}

	start := time.Now()
	results := fireReservations(ctx, c, *eventID, ids)
	elapsed := time.Since(start)

	tally := tallyResults(results)
	out.Section("%d attempts in %s", len(results), elapsed.Round(time.Millisecond))
	codes := make([]int, 0, len(tally))
	for code := range tally {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		label := http.StatusText(code)
		if code == 0 {
			label = "transport error"
		}
		out.Info("%3d %-22s %d", code, label, tally[code])
	}

	after, err := c.availability(ctx, *eventID)
	if err != nil {
		out.Fail("%v", err)
		return err
	}
	out.Info("now %d/%d seats booked", after.Booked, after.TotalSeats)

	out.Section("Invariants")
	created := tally[http.StatusCreated]
	var violations []string
	if after.Booked > after.TotalSeats {
		violations = append(violations, fmt.Sprintf("%d bookings exceed %d seats", after.Booked, after.TotalSeats))
	}
	if created > before.Remaining {
		violations = append(violations, fmt.Sprintf("%d created but only %d seats were free", created, before.Remaining))
	}
	if *sameUser && created > 1 {
		violations = append(violations, fmt.Sprintf("one user received %d bookings", created))
	}
	for _, v := range violations {
		out.Fail("%s", v)
	}
	if len(violations) > 0 {
		return errors.New("invariant violated under load")
	}
	out.OK("capacity held: %d created, %d seats left", created, after.Remaining)
	if *sameUser {
		out.OK("one booking per user held")
	}
	return nil
}

// fireReservations releases one goroutine per user id at the same instant.
func fireReservations(ctx context.Context, c *apiClient, eventID int64, userIDs []string) []model.BookingResult {
	results := make([]model.BookingResult, len(userIDs))
	gate := make(chan struct{})
	var wg sync.WaitGroup

	for i, id := range userIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			<-gate
			status, _, _, err := c.reserve(ctx, eventID, id)
			results[i] = model.BookingResult{UserID: id, StatusCode: status, Error: err}
		}(i, id)
	}

	close(gate)
	wg.Wait()
	return results
}

// tallyResults counts results by status code; transport errors count as 0.
func tallyResults(results []model.BookingResult) map[int]int {
	tally := make(map[int]int)
	for _, r := range results {
		if r.Error != nil {
			tally[0]++
			continue
		}
		tally[r.StatusCode]++
	}
	return tally
}
