package layout

import (
	"context"
	"time"

	"github.com/dd0wney/cluso-layout/pkg/entity"
	"github.com/dd0wney/cluso-layout/pkg/logging"
	"github.com/dd0wney/cluso-layout/pkg/metrics"
)

// Run steps entities until the largest speed drops below
// cfg.ConvergenceEpsilon or cfg.MaxIterations steps have run.
//
// ctx is checked between steps. When it is cancelled Run returns the
// stats so far together with ctx.Err(); entities keep the positions of the
// last completed step.
func (e *Engine) Run(ctx context.Context, entities []entity.Positioned, edges []entity.Edge, cfg Config) (RunStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := cfg.Validate(); err != nil {
		e.metrics.RecordError("run")
		return RunStats{}, err
	}

	start := time.Now()
	var stats RunStats
	outcome := metrics.OutcomeMaxIterations

	for stats.Iterations < cfg.MaxIterations {
		if err := ctx.Err(); err != nil {
			stats.Elapsed = time.Since(start)
			e.finishRun(metrics.OutcomeCancelled, stats)
			return stats, err
		}

		res, err := e.step(entities, edges, cfg)
		if err != nil {
			stats.Elapsed = time.Since(start)
			e.finishRun(metrics.OutcomeFailed, stats)
			return stats, err
		}
		stats.Iterations++
		stats.MaxVelocity = res.maxVelocity

		if res.maxVelocity < cfg.ConvergenceEpsilon {
			stats.Converged = true
			outcome = metrics.OutcomeConverged
			break
		}
	}

	stats.Elapsed = time.Since(start)
	e.finishRun(outcome, stats)
	return stats, nil
}

func (e *Engine) finishRun(outcome string, stats RunStats) {
	e.metrics.RecordRun(outcome, stats.Iterations)
	e.logger.Info("layout run finished",
		logging.String("outcome", outcome),
		logging.Iteration(stats.Iterations),
		logging.Float32("max_velocity", stats.MaxVelocity),
		logging.Latency(stats.Elapsed),
	)
}
