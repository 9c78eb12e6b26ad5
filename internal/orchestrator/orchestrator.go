package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/san-kum/cloverrun/internal/archive"
	"github.com/san-kum/cloverrun/internal/collect"
	"github.com/san-kum/cloverrun/internal/deck"
	"github.com/san-kum/cloverrun/internal/runner"
	"github.com/san-kum/cloverrun/internal/workspace"
)

// Runner abstracts the external binary invocation so tests can substitute
// a scripted simulation.
type Runner interface {
	EnsureBinary(ctx context.Context) error
	Run(ctx context.Context) (*runner.Result, error)
}

// Plan describes a sequence of iterations over one base configuration.
type Plan struct {
	Iterations int
	Regenerate bool // write a fresh deck before every iteration
	Randomize  bool // draw randomized fields for each generated deck
	Seed       int64
	Config     deck.RunConfig
}

// IterationTiming records wall-clock durations for one iteration's phases.
type IterationTiming struct {
	Index      int
	Simulation time.Duration
	Collect    time.Duration
	Archive    time.Duration
}

// Summary is the user-visible account of a plan run.
type Summary struct {
	Attempted int
	Succeeded int
	FailedAt  int // 0 when every iteration completed
	Archives  []string
	Timings   []IterationTiming
}

// Orchestrator drives iterations strictly sequentially through
// prepare -> execute -> collect -> archive, halting on the first failure.
type Orchestrator struct {
	ws        *workspace.Handle
	runner    Runner
	collector *collect.Collector
	archiver  *archive.Archiver
	logger    *slog.Logger
	observer  func(Event)
}

type Option func(*Orchestrator)

// WithObserver registers a callback invoked on every phase transition.
func WithObserver(fn func(Event)) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

func New(ws *workspace.Handle, r Runner, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ws:        ws,
		runner:    r,
		collector: collect.New(ws, logger),
		archiver:  archive.New(ws, logger),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the plan. On failure the returned Summary is still valid:
// it reports the iterations attempted and which one halted the plan.
func (o *Orchestrator) Run(ctx context.Context, plan Plan) (*Summary, error) {
	if plan.Iterations < 1 {
		return nil, fmt.Errorf("orchestrator: iteration count must be positive, got %d", plan.Iterations)
	}
	if err := plan.Config.Validate(); err != nil {
		return nil, err
	}
	if err := o.ws.Init(); err != nil {
		return nil, err
	}
	if err := o.runner.EnsureBinary(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}

	rng := rand.New(rand.NewSource(plan.Seed))
	sum := &Summary{}

	for i := 1; i <= plan.Iterations; i++ {
		sum.Attempted = i
		timing := IterationTiming{Index: i}

		o.emit(i, plan.Iterations, Preparing)
		if err := o.prepare(plan, rng, i); err != nil {
			return o.halt(sum, i, plan.Iterations, Preparing, err)
		}

		o.emit(i, plan.Iterations, Executing)
		start := time.Now()
		res, err := o.runner.Run(ctx)
		timing.Simulation = time.Since(start)
		if err != nil {
			return o.halt(sum, i, plan.Iterations, Executing, err)
		}
		if res.Status != runner.Success {
			// Raw files stay in the working directory for inspection.
			return o.halt(sum, i, plan.Iterations, Executing,
				fmt.Errorf("%w (inspect %s)", ErrSimulationFailed, o.ws.LogPath()))
		}

		o.emit(i, plan.Iterations, Collecting)
		start = time.Now()
		if err := o.collector.Collect(res, o.ws.IterationDir(i)); err != nil {
			timing.Collect = time.Since(start)
			return o.halt(sum, i, plan.Iterations, Collecting, fmt.Errorf("%w: %v", ErrCollectFailed, err))
		}
		timing.Collect = time.Since(start)

		o.emit(i, plan.Iterations, Archiving)
		start = time.Now()
		dest, err := o.archiver.Archive(o.ws.IterationDir(i), i)
		timing.Archive = time.Since(start)
		if err != nil {
			return o.halt(sum, i, plan.Iterations, Archiving, fmt.Errorf("%w: %v", ErrArchiveFailed, err))
		}

		sum.Archives = append(sum.Archives, dest)
		sum.Timings = append(sum.Timings, timing)
		sum.Succeeded = i
		o.logger.Info("iteration complete",
			"iteration", i,
			"archive", filepath.Base(dest),
			"sim_time", timing.Simulation.Round(time.Millisecond))
	}

	o.emit(plan.Iterations, plan.Iterations, Completed)
	return sum, nil
}

// prepare makes sure the deck for iteration i is in place. A fixed plan
// writes the deck once before iteration 1 and reuses it afterwards.
func (o *Orchestrator) prepare(plan Plan, rng *rand.Rand, i int) error {
	if i > 1 && !plan.Regenerate && !plan.Randomize {
		return nil
	}
	cfg := plan.Config
	if plan.Randomize {
		cfg.Randomize(rng)
	}
	return cfg.Write(o.ws.DeckPath())
}

func (o *Orchestrator) halt(sum *Summary, i, total int, phase Phase, err error) (*Summary, error) {
	sum.FailedAt = i
	o.emit(i, total, Halted)
	return sum, &IterationError{Index: i, Phase: phase, Wrapped: err}
}

func (o *Orchestrator) emit(iteration, total int, phase Phase) {
	if o.observer != nil {
		o.observer(Event{Iteration: iteration, Total: total, Phase: phase})
	}
}
