package behavior

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ActionFunc wraps a function as a leaf node.
type ActionFunc struct {
	baseNode
	Fn func(t TickContext) Status
}

// Action returns a leaf that calls fn on every tick.
func Action(name string, fn func(t TickContext) Status) *ActionFunc {
	return &ActionFunc{baseNode: baseNode{name: name}, Fn: fn}
}

func (a *ActionFunc) Tick(t TickContext) Status {
	if a.Fn == nil {
		return StatusFailure
	}
	return a.Fn(t)
}

// ConditionFunc wraps a predicate as a leaf node: true is success, false is
// failure.
type ConditionFunc struct {
	baseNode
	Fn func(t TickContext) bool
}

// Condition returns a leaf that evaluates fn on every tick.
func Condition(name string, fn func(t TickContext) bool) *ConditionFunc {
	return &ConditionFunc{baseNode: baseNode{name: name}, Fn: fn}
}

func (c *ConditionFunc) Tick(t TickContext) Status {
	if c.Fn != nil && c.Fn(t) {
		return StatusSuccess
	}
	return StatusFailure
}

// FallibleFunc wraps a function that may return an error or panic. Both are
// reported as failure and logged. A concurrent advance panic is not recovered.
type FallibleFunc struct {
	baseNode
	Fn  func(t TickContext) (Status, error)
	err error
}

// Fallible returns a leaf that turns errors and panics raised by fn into
// failure.
func Fallible(name string, fn func(t TickContext) (Status, error)) *FallibleFunc {
	return &FallibleFunc{baseNode: baseNode{name: name}, Fn: fn}
}

// Err returns the error of the most recent tick, if any.
func (f *FallibleFunc) Err() error { return f.err }

func (f *FallibleFunc) Tick(t TickContext) (st Status) {
	f.err = nil
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok && errors.Is(err, ErrConcurrentAdvance) {
				panic(r)
			}
			f.err = fmt.Errorf("panic: %v", r)
			st = StatusFailure
		}
		if f.err != nil {
			t.Logger().Error("leaf failed", zap.String("node", f.name), zap.Error(f.err))
		}
	}()
	if f.Fn == nil {
		return StatusFailure
	}
	st, f.err = f.Fn(t)
	if f.err != nil {
		return StatusFailure
	}
	return normalize(st)
}

// Succeed returns a leaf that always succeeds.
func Succeed(name string) *ActionFunc {
	return Action(name, func(TickContext) Status { return StatusSuccess })
}

// Fail returns a leaf that always fails.
func Fail(name string) *ActionFunc {
	return Action(name, func(TickContext) Status { return StatusFailure })
}

// TickWait is a leaf that stays running until it has been ticked n times.
type TickWait struct {
	baseNode
	n       int
	elapsed int
}

// WaitTicks returns a leaf that is running for n-1 ticks and succeeds on
// the n-th.
func WaitTicks(name string, n int) *TickWait {
	return &TickWait{baseNode: baseNode{name: name}, n: n}
}

func (w *TickWait) Tick(TickContext) Status {
	w.elapsed++
	if w.elapsed < w.n {
		return StatusRunning
	}
	w.elapsed = 0
	return StatusSuccess
}

func (w *TickWait) Reset() { w.elapsed = 0 }

// TimeWait is a leaf that stays running until a duration has passed on the
// tick clock since it was first ticked.
type TimeWait struct {
	baseNode
	d     time.Duration
	start time.Time
}

// Wait returns a leaf that succeeds once d has elapsed since its first tick.
func Wait(name string, d time.Duration) *TimeWait {
	return &TimeWait{baseNode: baseNode{name: name}, d: d}
}

func (w *TimeWait) Tick(t TickContext) Status {
	now := t.Now()
	if w.start.IsZero() {
		w.start = now
	}
	if now.Sub(w.start) < w.d {
		return StatusRunning
	}
	w.start = time.Time{}
	return StatusSuccess
}

func (w *TimeWait) Reset() { w.start = time.Time{} }
