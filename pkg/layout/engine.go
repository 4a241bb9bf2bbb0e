package layout

import (
	"sync"

	"github.com/dd0wney/cluso-layout/pkg/logging"
	"github.com/dd0wney/cluso-layout/pkg/metrics"
	"github.com/dd0wney/cluso-layout/pkg/octree"
	"github.com/dd0wney/cluso-layout/pkg/parallel"
	"github.com/dd0wney/cluso-layout/pkg/pools"
	"github.com/dd0wney/cluso-layout/pkg/spatial"
)

// minParallelEntities is the smallest step worth splitting across workers
const minParallelEntities = 64

// Engine advances layouts one step at a time. It keeps no entity state
// between steps: positions and velocities live on the entities passed in.
// The octree and force buffers are reused across steps.
//
// Calls on one Engine are serialized.
type Engine struct {
	mu      sync.Mutex
	logger  logging.Logger
	metrics *metrics.Registry
	grid    *spatial.Grid
	workers int
	pool    *parallel.WorkerPool
	tree    *octree.Tree
	forces  *pools.Vec3Pool
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records step and run metrics in reg
func WithMetrics(reg *metrics.Registry) Option {
	return func(e *Engine) {
		e.metrics = reg
	}
}

// WithWorkers computes forces on n goroutines. n <= 1 keeps everything on
// the calling goroutine.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithGrid keeps grid in sync with entity positions after every step
func WithGrid(g *spatial.Grid) Option {
	return func(e *Engine) {
		e.grid = g
	}
}

// NewEngine creates an engine. Call Close when done if WithWorkers was used.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: logging.NewNopLogger(),
		tree:   octree.NewTree(),
		forces: pools.NewVec3Pool(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logging.Component("layout"))

	if e.workers > 1 {
		pool, err := parallel.NewWorkerPoolWithLogger(e.workers, e.logger)
		if err != nil {
			return nil, err
		}
		e.pool = pool
	}
	return e, nil
}

// Grid returns the attached grid, or nil
func (e *Engine) Grid() *spatial.Grid {
	return e.grid
}

// Close stops the worker pool
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

// forEach runs fn over [0, n), on the pool when it pays off
func (e *Engine) forEach(n int, fn func(lo, hi int)) error {
	if e.pool == nil || n < minParallelEntities {
		fn(0, n)
		return nil
	}
	return e.pool.ForEachChunk(n, fn)
}
