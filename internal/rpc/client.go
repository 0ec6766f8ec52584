// Package rpc provides typed clients for the service patterns on the
// message bus. Every client call carries a bounded timeout and runs
// through a per-service circuit breaker.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/teamtodo/server/internal/bus"
	"github.com/teamtodo/server/internal/shared/config"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

// caller is the shared transport of all typed clients.
type caller struct {
	bus     *bus.Bus
	breaker *gobreaker.CircuitBreaker[json.RawMessage]
	timeout time.Duration
	logger  *zap.Logger
}

func newCaller(b *bus.Bus, service string, cfg *config.BusConfig, logger *zap.Logger) *caller {
	maxFails := cfg.BreakerMaxFails
	if maxFails == 0 {
		maxFails = 5
	}
	openFor := cfg.BreakerOpenFor
	if openFor == 0 {
		openFor = 30 * time.Second
	}
	probeReqs := cfg.BreakerProbeReqs
	if probeReqs == 0 {
		probeReqs = 1
	}
	timeout := cfg.CallTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:        service,
		MaxRequests: probeReqs,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFails
		},
		// Service-level errors (not found, forbidden, validation) are
		// healthy replies; only transport failures trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || !apperrors.IsUpstream(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("service", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &caller{
		bus:     b,
		breaker: breaker,
		timeout: timeout,
		logger:  logger,
	}
}

// call sends one request and decodes the reply into out (out may be nil
// for null replies). Transport failures, timeouts and an open breaker
// all surface as upstream errors; service errors pass through unchanged.
func (c *caller) call(ctx context.Context, pattern string, req, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.breaker.Execute(func() (json.RawMessage, error) {
		return c.bus.Request(ctx, pattern, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return apperrors.Upstream(c.breaker.Name(), err)
		}
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Internal("decode reply payload", err)
	}
	return nil
}
