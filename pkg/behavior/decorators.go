package behavior

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// decorator holds the single child shared by all decorators.
type decorator struct {
	baseNode
	child Node
}

func newDecorator(kind, name string, child Node) (decorator, error) {
	if isNil(child) {
		return decorator{}, fmt.Errorf("%s %q: %w", kind, name, ErrNoChild)
	}
	return decorator{baseNode: baseNode{name: name}, child: child}, nil
}

func (d *decorator) Children() []Node { return []Node{d.child} }

func (d *decorator) Reset() { Reset(d.child) }

// Inverter flips success and failure; running passes through.
type Inverter struct {
	decorator
}

func NewInverter(name string, child Node) (*Inverter, error) {
	d, err := newDecorator("inverter", name, child)
	if err != nil {
		return nil, err
	}
	return &Inverter{decorator: d}, nil
}

func (d *Inverter) Tick(t TickContext) Status {
	switch st := tickChild(t, d.child); st {
	case StatusSuccess:
		return StatusFailure
	case StatusFailure:
		return StatusSuccess
	default:
		return st
	}
}

// Succeeder reports failure of its child as success, so the branch never
// blocks an enclosing sequence.
type Succeeder struct {
	decorator
}

func NewSucceeder(name string, child Node) (*Succeeder, error) {
	d, err := newDecorator("succeeder", name, child)
	if err != nil {
		return nil, err
	}
	return &Succeeder{decorator: d}, nil
}

func (d *Succeeder) Tick(t TickContext) Status {
	if st := tickChild(t, d.child); st == StatusRunning {
		return st
	}
	return StatusSuccess
}

// Failer reports success of its child as failure.
type Failer struct {
	decorator
}

func NewFailer(name string, child Node) (*Failer, error) {
	d, err := newDecorator("failer", name, child)
	if err != nil {
		return nil, err
	}
	return &Failer{decorator: d}, nil
}

func (d *Failer) Tick(t TickContext) Status {
	if st := tickChild(t, d.child); st == StatusRunning {
		return st
	}
	return StatusFailure
}

// RepeatPolicy selects what a Repeater returns once its count is exhausted.
type RepeatPolicy int

const (
	// RepeatSucceed returns success regardless of the last child result.
	RepeatSucceed RepeatPolicy = iota
	// RepeatLastResult returns the result of the final child run.
	RepeatLastResult
)

// RepeatOption configures a Repeater.
type RepeatOption func(*Repeater)

// WithRepeatPolicy sets the exhaustion policy.
func WithRepeatPolicy(p RepeatPolicy) RepeatOption {
	return func(r *Repeater) { r.policy = p }
}

// Repeater runs its child count times, one completed run per tick at most.
// It returns running between runs and applies its policy on the last one. A
// count of zero or less repeats forever.
type Repeater struct {
	decorator
	count     int
	remaining int
	policy    RepeatPolicy
}

func NewRepeater(name string, count int, child Node, opts ...RepeatOption) (*Repeater, error) {
	d, err := newDecorator("repeater", name, child)
	if err != nil {
		return nil, err
	}
	r := &Repeater{decorator: d, count: count, remaining: count}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Remaining returns how many child runs are left in the current cycle.
func (r *Repeater) Remaining() int { return r.remaining }

func (r *Repeater) Tick(t TickContext) Status {
	st := tickChild(t, r.child)
	if st == StatusRunning || r.count <= 0 {
		return StatusRunning
	}
	r.remaining--
	if r.remaining > 0 {
		return StatusRunning
	}
	r.remaining = r.count
	if r.policy == RepeatLastResult {
		return st
	}
	return StatusSuccess
}

func (r *Repeater) Reset() {
	r.remaining = r.count
	Reset(r.child)
}

// UntilSuccess retries its child until it succeeds. After limit failed
// attempts it fails; a limit of zero or less retries forever.
type UntilSuccess struct {
	decorator
	limit    int
	attempts int
}

func NewUntilSuccess(name string, limit int, child Node) (*UntilSuccess, error) {
	d, err := newDecorator("until success", name, child)
	if err != nil {
		return nil, err
	}
	return &UntilSuccess{decorator: d, limit: limit}, nil
}

func (u *UntilSuccess) Tick(t TickContext) Status {
	st, attempts := retry(u.child, t, StatusSuccess, u.limit, u.attempts)
	u.attempts = attempts
	return st
}

func (u *UntilSuccess) Reset() {
	u.attempts = 0
	Reset(u.child)
}

// UntilFailure re-runs its child until it fails, then succeeds. After limit
// successful runs without a failure it fails; a limit of zero or less runs
// forever.
type UntilFailure struct {
	decorator
	limit    int
	attempts int
}

func NewUntilFailure(name string, limit int, child Node) (*UntilFailure, error) {
	d, err := newDecorator("until failure", name, child)
	if err != nil {
		return nil, err
	}
	return &UntilFailure{decorator: d, limit: limit}, nil
}

func (u *UntilFailure) Tick(t TickContext) Status {
	st, attempts := retry(u.child, t, StatusFailure, u.limit, u.attempts)
	u.attempts = attempts
	return st
}

func (u *UntilFailure) Reset() {
	u.attempts = 0
	Reset(u.child)
}

// retry ticks child once and returns success when it produced want, running
// while attempts remain and failure once limit attempts were spent.
func retry(child Node, t TickContext, want Status, limit, attempts int) (Status, int) {
	st := tickChild(t, child)
	switch {
	case st == StatusRunning:
		return StatusRunning, attempts
	case st == want:
		return StatusSuccess, 0
	}
	attempts++
	if limit > 0 && attempts >= limit {
		return StatusFailure, 0
	}
	return StatusRunning, attempts
}

// Timeout fails its child when it stays running for ticks consecutive ticks.
// The child is reset when the limit is hit.
type Timeout struct {
	decorator
	ticks   int
	elapsed int
}

func NewTimeout(name string, ticks int, child Node) (*Timeout, error) {
	d, err := newDecorator("timeout", name, child)
	if err != nil {
		return nil, err
	}
	if ticks <= 0 {
		return nil, fmt.Errorf("timeout %q: %d ticks: %w", name, ticks, ErrInvalidCount)
	}
	return &Timeout{decorator: d, ticks: ticks}, nil
}

// Elapsed returns the number of consecutive ticks the child has been running.
func (d *Timeout) Elapsed() int { return d.elapsed }

func (d *Timeout) Tick(t TickContext) Status {
	st := tickChild(t, d.child)
	if st != StatusRunning {
		d.elapsed = 0
		return st
	}
	d.elapsed++
	if d.elapsed >= d.ticks {
		d.elapsed = 0
		Reset(d.child)
		t.Logger().Debug("timeout expired", zap.String("node", d.name), zap.Int("ticks", d.ticks))
		return StatusFailure
	}
	return StatusRunning
}

func (d *Timeout) Reset() {
	d.elapsed = 0
	Reset(d.child)
}

// Counter passes its child's status through and stores how many times the
// child has been ticked under key in the blackboard.
type Counter struct {
	decorator
	key   string
	count int
}

func NewCounter(name, key string, child Node) (*Counter, error) {
	d, err := newDecorator("counter", name, child)
	if err != nil {
		return nil, err
	}
	if key == "" {
		key = name
	}
	return &Counter{decorator: d, key: key}, nil
}

// Count returns how many times the child has been ticked.
func (c *Counter) Count() int { return c.count }

func (c *Counter) Tick(t TickContext) Status {
	st := tickChild(t, c.child)
	c.count++
	if t.BB != nil {
		t.BB.Set(c.key, c.count)
	}
	return st
}

// Cooldown blocks its child for a period after it finishes: while cooling
// down the child is not ticked and Cooldown fails. With successOnly set only
// a successful run starts the period.
type Cooldown struct {
	decorator
	period      time.Duration
	successOnly bool
	last        time.Time
}

func NewCooldown(name string, period time.Duration, successOnly bool, child Node) (*Cooldown, error) {
	d, err := newDecorator("cooldown", name, child)
	if err != nil {
		return nil, err
	}
	if period <= 0 {
		return nil, fmt.Errorf("cooldown %q: period must be positive, got %s: %w", name, period, ErrInvalidDuration)
	}
	return &Cooldown{decorator: d, period: period, successOnly: successOnly}, nil
}

func (d *Cooldown) Tick(t TickContext) Status {
	now := t.Now()
	if !d.last.IsZero() && now.Sub(d.last) < d.period {
		return StatusFailure
	}
	st := tickChild(t, d.child)
	if st == StatusSuccess || (st == StatusFailure && !d.successOnly) {
		d.last = now
	}
	return st
}

func (d *Cooldown) Reset() {
	d.last = time.Time{}
	Reset(d.child)
}
