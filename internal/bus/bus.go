// Package bus provides the in-process request/reply message bus that
// connects the gateway, user, team, todo and mail services. Payloads
// cross the bus as JSON so services never share mutable state.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/teamtodo/server/internal/utils/errors"
	"github.com/teamtodo/server/internal/utils/metrics"
)

// HandlerFunc processes one request for a pattern. The returned value is
// marshaled to JSON before it reaches the caller.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Bus dispatches request/reply messages to registered pattern handlers.
// Each pattern has exactly one handler.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// New creates a new bus.
func New(logger *zap.Logger, m *metrics.Metrics) *Bus {
	return &Bus{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
		metrics:  m,
	}
}

// Handle registers the handler for a pattern. Registering a pattern twice
// replaces the previous handler.
func (b *Bus) Handle(pattern string, h HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.handlers[pattern]; exists {
		b.logger.Warn("replacing bus handler", zap.String("pattern", pattern))
	}
	b.handlers[pattern] = h
	b.logger.Debug("registered bus handler", zap.String("pattern", pattern))
}

// Request sends a request to the pattern's handler and waits for the reply.
// The context deadline bounds the whole call; a deadline hit or a missing
// handler is reported as an upstream failure. Handler errors pass through
// unchanged so the caller can inspect the service's error taxonomy.
func (b *Bus) Request(ctx context.Context, pattern string, payload any) (json.RawMessage, error) {
	b.mu.RLock()
	handler, ok := b.handlers[pattern]
	b.mu.RUnlock()

	if !ok {
		b.record(pattern, "error", 0)
		return nil, apperrors.Upstream(pattern, fmt.Errorf("no handler for pattern %q", pattern))
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Internal("marshal request payload", err)
	}

	start := time.Now()

	type reply struct {
		result any
		err    error
	}
	done := make(chan reply, 1)

	go func() {
		result, err := handler(ctx, data)
		done <- reply{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		b.record(pattern, "timeout", time.Since(start))
		b.logger.Warn("bus request timed out",
			zap.String("pattern", pattern),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, apperrors.Upstream(pattern, ctx.Err())
	case r := <-done:
		elapsed := time.Since(start)
		if r.err != nil {
			b.record(pattern, "error", elapsed)
			return nil, r.err
		}
		b.record(pattern, "ok", elapsed)

		out, err := json.Marshal(r.result)
		if err != nil {
			return nil, apperrors.Internal("marshal reply payload", err)
		}
		return out, nil
	}
}

func (b *Bus) record(pattern, status string, d time.Duration) {
	if b.metrics != nil {
		b.metrics.RecordBusRequest(pattern, status, d)
	}
}
