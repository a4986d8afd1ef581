package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pinger is anything that can report backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService reports whether the booking store is reachable.
type HealthService struct {
	store   Pinger
	timeout time.Duration
	log     *zap.Logger
}

// NewHealthService constructs a HealthService. Each probe is bounded by timeout.
func NewHealthService(store Pinger, timeout time.Duration, log *zap.Logger) *HealthService {
	return &HealthService{store: store, timeout: timeout, log: log}
}

// Ping reports whether the store answered within the timeout.
func (s *HealthService) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("health check failed", zap.Error(err))
		return false
	}
	return true
}
