package behavior

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tree owns a root node and advances it one step at a time. All progress
// between steps lives in the nodes; the tree only counts steps.
//
// A Tree must be advanced by one caller at a time.
type Tree struct {
	id        uuid.UUID
	name      string
	root      Node
	bb        Blackboard
	log       *zap.Logger
	clock     func() time.Time
	observers []Observer

	step    uint64
	ticking atomic.Bool
}

// Option configures a Tree.
type Option func(*Tree)

// WithName sets the name used in logs and records. Defaults to the root's name.
func WithName(name string) Option {
	return func(t *Tree) { t.name = name }
}

// WithID sets the tree identity. Defaults to a random UUID.
func WithID(id uuid.UUID) Option {
	return func(t *Tree) { t.id = id }
}

// WithBlackboard sets the blackboard handed to nodes.
func WithBlackboard(bb Blackboard) Option {
	return func(t *Tree) { t.bb = bb }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tree) { t.log = l }
}

// WithClock sets the time source handed to nodes.
func WithClock(clock func() time.Time) Option {
	return func(t *Tree) { t.clock = clock }
}

// WithObserver registers an observer notified after each step.
func WithObserver(obs Observer) Option {
	return func(t *Tree) { t.observers = append(t.observers, obs) }
}

// New validates root and returns a tree driving it.
func New(root Node, opts ...Option) (*Tree, error) {
	if err := Validate(root); err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	t := &Tree{
		id:    uuid.New(),
		root:  root,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.name == "" {
		t.name = NameOf(root)
	}
	if t.bb == nil {
		t.bb = NewBlackboard()
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	if t.clock == nil {
		t.clock = time.Now
	}
	t.log = t.log.With(zap.String("tree", t.name), zap.Stringer("tree_id", t.id))
	return t, nil
}

func (t *Tree) ID() uuid.UUID { return t.id }

func (t *Tree) Name() string { return t.name }

func (t *Tree) Root() Node { return t.root }

// Blackboard returns the blackboard handed to nodes.
func (t *Tree) Blackboard() Blackboard { return t.bb }

// Advance ticks the root once and returns its status.
//
// Advance panics with ErrConcurrentAdvance when called while another Advance
// of the same tree is running, including from inside a node.
func (t *Tree) Advance(ctx context.Context) Status {
	if !t.ticking.CompareAndSwap(false, true) {
		panic(ErrConcurrentAdvance)
	}
	defer t.ticking.Store(false)

	if ctx == nil {
		ctx = context.Background()
	}
	t.step++
	start := t.clock()
	visits := 1
	tc := TickContext{
		Ctx:    ctx,
		BB:     t.bb,
		Tree:   t.id,
		Step:   t.step,
		Clock:  t.clock,
		Log:    t.log,
		visits: &visits,
	}
	st := t.root.Tick(tc)
	if !st.Valid() {
		t.log.Error("root returned invalid status",
			zap.Uint64("step", t.step),
			zap.Int("status", int(st)),
		)
		st = StatusFailure
	}
	end := t.clock()
	t.log.Debug("step",
		zap.Uint64("step", t.step),
		zap.Stringer("status", st),
		zap.Int("nodes", visits),
		zap.Duration("duration", end.Sub(start)),
	)
	if len(t.observers) > 0 {
		rec := Record{
			Tree:     t.id,
			Name:     t.name,
			Step:     t.step,
			Status:   st,
			Nodes:    visits,
			Duration: end.Sub(start),
			Time:     end,
		}
		for _, obs := range t.observers {
			obs.Observe(rec)
		}
	}
	return st
}
