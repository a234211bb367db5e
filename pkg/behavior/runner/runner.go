// Package runner drives behavior trees to completion.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/behave/pkg/behavior"
)

// ErrStepLimit is returned when a tree is still running after the step budget
// was spent.
var ErrStepLimit = errors.New("runner: step limit reached")

// Result summarizes one run. Status is zero when the run stopped before its
// first step.
type Result struct {
	Tree    uuid.UUID       `json:"tree"`
	Name    string          `json:"name"`
	Status  behavior.Status `json:"status,omitempty"`
	Steps   uint64          `json:"steps"`
	Elapsed time.Duration   `json:"elapsed"`
}

// Runner advances trees until they finish.
type Runner struct {
	interval    time.Duration
	maxSteps    uint64
	continuous  bool
	concurrency int
	log         *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithInterval paces steps at most once per d. Zero advances back to back.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) { r.interval = d }
}

// WithMaxSteps bounds the steps of a single run. Zero means unbounded.
func WithMaxSteps(n uint64) Option {
	return func(r *Runner) { r.maxSteps = n }
}

// WithContinuous keeps advancing after the root finishes, the way a game loop
// ticks its agents every frame. The run ends at the step limit or when the
// context is done.
func WithContinuous() Option {
	return func(r *Runner) { r.continuous = true }
}

// WithConcurrency bounds how many trees RunAll advances at once.
func WithConcurrency(n int) Option {
	return func(r *Runner) { r.concurrency = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.log = l }
}

func New(opts ...Option) *Runner {
	r := &Runner{log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// Run advances tree until its root returns a terminal status. In continuous
// mode it keeps going until the step limit. A run stopped by the context
// returns the context's error along with the partial result.
func (r *Runner) Run(ctx context.Context, tree *behavior.Tree) (Result, error) {
	res := Result{Tree: tree.ID(), Name: tree.Name()}
	log := r.log.With(zap.String("tree", tree.Name()), zap.Stringer("tree_id", tree.ID()))
	log.Info("run started",
		zap.Duration("interval", r.interval),
		zap.Uint64("max_steps", r.maxSteps),
		zap.Bool("continuous", r.continuous),
	)

	start := time.Now()

	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if err := ctx.Err(); err != nil {
			res.Elapsed = time.Since(start)
			log.Info("run interrupted", zap.Uint64("steps", res.Steps), zap.Error(err))
			return res, err
		}

		res.Status = tree.Advance(ctx)
		res.Steps++

		if res.Status.Done() && !r.continuous {
			res.Elapsed = time.Since(start)
			log.Info("run finished", zap.Stringer("status", res.Status), zap.Uint64("steps", res.Steps))
			return res, nil
		}
		if r.maxSteps > 0 && res.Steps >= r.maxSteps {
			res.Elapsed = time.Since(start)
			if r.continuous {
				log.Info("run finished", zap.Stringer("status", res.Status), zap.Uint64("steps", res.Steps))
				return res, nil
			}
			log.Error("step limit reached", zap.Uint64("steps", res.Steps))
			return res, fmt.Errorf("%s after %d steps: %w", tree.Name(), res.Steps, ErrStepLimit)
		}

		if tick != nil {
			select {
			case <-ctx.Done():
			case <-tick:
			}
		}
	}
}

// RunAll runs every tree on its own goroutine. Results keep the order of
// trees. The first error cancels the remaining runs and is returned.
func (r *Runner) RunAll(ctx context.Context, trees ...*behavior.Tree) ([]Result, error) {
	results := make([]Result, len(trees))
	g, gctx := errgroup.WithContext(ctx)
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for i, tree := range trees {
		g.Go(func() error {
			res, err := r.Run(gctx, tree)
			results[i] = res
			return err
		})
	}
	return results, g.Wait()
}
