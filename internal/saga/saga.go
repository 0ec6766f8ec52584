// Package saga runs multi-service operations as ordered steps with
// explicit compensations. A failed step triggers a reverse unwind of the
// compensations of every step that already completed.
package saga

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/teamtodo/server/internal/utils/errors"
	"github.com/teamtodo/server/internal/utils/metrics"
)

// compensateTimeout bounds each compensation attempt. Compensations run
// on a detached context so an expired request deadline cannot abort the
// unwind.
const compensateTimeout = 10 * time.Second

// Step is one unit of a saga. Compensate may be nil for steps with no
// remote effect (reads, final local writes).
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Runner executes sagas and records their outcomes.
type Runner struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewRunner creates a saga runner.
func NewRunner(logger *zap.Logger, m *metrics.Metrics) *Runner {
	return &Runner{logger: logger, metrics: m}
}

// Execute runs steps in order. When step i fails, the compensations of
// steps i-1..0 run in reverse order, each attempted exactly once.
//
// If the unwind fully succeeds, the triggering error is returned so the
// caller sees the original failure and stored state matches the state
// before the saga started. If any compensation fails, the returned error
// wraps ErrInconsistent: the stores are out of sync and the caller must
// not pretend otherwise.
func (r *Runner) Execute(ctx context.Context, name string, steps ...Step) error {
	for i, step := range steps {
		err := step.Run(ctx)
		if err == nil {
			continue
		}

		r.logger.Warn("saga step failed, unwinding",
			zap.String("saga", name),
			zap.String("step", step.Name),
			zap.Error(err),
		)

		if compErr := r.unwind(name, steps[:i]); compErr != nil {
			r.recordRun(name, "inconsistent")
			return apperrors.Inconsistent(
				fmt.Sprintf("%s: compensation failed after %s", name, step.Name),
				fmt.Errorf("step: %w, compensation: %w", err, compErr),
			)
		}

		r.recordRun(name, "compensated")
		return err
	}

	r.recordRun(name, "ok")
	return nil
}

// unwind runs the compensations of completed steps in reverse order.
// Every compensation is attempted even after one fails; the first
// failure is returned.
func (r *Runner) unwind(name string, completed []Step) error {
	var firstErr error
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), compensateTimeout)
		err := step.Compensate(ctx)
		cancel()

		r.recordCompensation(name, step.Name, err == nil)
		if err != nil {
			r.logger.Error("saga compensation failed",
				zap.String("saga", name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("compensate %s: %w", step.Name, err)
			}
			continue
		}

		r.logger.Info("saga step compensated",
			zap.String("saga", name),
			zap.String("step", step.Name),
		)
	}
	return firstErr
}

func (r *Runner) recordRun(saga, outcome string) {
	if r.metrics != nil {
		r.metrics.RecordSagaRun(saga, outcome)
	}
}

func (r *Runner) recordCompensation(saga, step string, ok bool) {
	if r.metrics != nil {
		r.metrics.RecordCompensation(saga, step, ok)
	}
}
