package behavior

import "fmt"

// idle marks a composite with no child left running.
const idle = -1

// composite holds the ordered children shared by Sequence and Selector along
// with the running index carried between ticks.
type composite struct {
	baseNode
	children []Node
	running  int
	reactive bool
}

func newComposite(kind, name string, reactive bool, children []Node) (composite, error) {
	if len(children) == 0 {
		return composite{}, fmt.Errorf("%s %q: %w", kind, name, ErrNoChildren)
	}
	for i, ch := range children {
		if isNil(ch) {
			return composite{}, fmt.Errorf("%s %q: child %d: %w", kind, name, i, ErrNilChild)
		}
	}
	owned := make([]Node, len(children))
	copy(owned, children)
	return composite{baseNode: baseNode{name: name}, children: owned, running: idle, reactive: reactive}, nil
}

// Children returns a copy of the child list.
func (c *composite) Children() []Node {
	out := make([]Node, len(c.children))
	copy(out, c.children)
	return out
}

// Running returns the index of the child left running, or -1.
func (c *composite) Running() int { return c.running }

func (c *composite) Reset() {
	c.running = idle
	for _, ch := range c.children {
		Reset(ch)
	}
}

// tick evaluates children until one returns stop or running. Memory
// composites resume at the running index; reactive ones restart at zero and
// reset a running child that a higher priority sibling pre-empted.
func (c *composite) tick(t TickContext, stop Status) Status {
	prev := c.running
	start := 0
	if !c.reactive && prev != idle {
		start = prev
	}
	i, st := c.evaluate(t, start, stop)
	if c.reactive && prev != idle && i < prev {
		Reset(c.children[prev])
	}
	if st == StatusRunning {
		c.running = i
	} else {
		c.running = idle
	}
	return st
}

func (c *composite) evaluate(t TickContext, start int, stop Status) (int, Status) {
	for i := start; i < len(c.children); i++ {
		st := tickChild(t, c.children[i])
		if st == StatusRunning || st == stop {
			return i, st
		}
	}
	if stop == StatusFailure {
		return len(c.children), StatusSuccess
	}
	return len(c.children), StatusFailure
}

// Sequence ticks its children in order until one fails. It succeeds when all
// children succeed and resumes at a running child on the next tick without
// re-evaluating the children before it.
type Sequence struct {
	composite
}

func NewSequence(name string, children ...Node) (*Sequence, error) {
	c, err := newComposite("sequence", name, false, children)
	if err != nil {
		return nil, err
	}
	return &Sequence{composite: c}, nil
}

// NewReactiveSequence returns a sequence that re-evaluates from the first
// child on every tick.
func NewReactiveSequence(name string, children ...Node) (*Sequence, error) {
	c, err := newComposite("reactive sequence", name, true, children)
	if err != nil {
		return nil, err
	}
	return &Sequence{composite: c}, nil
}

func (s *Sequence) Tick(t TickContext) Status { return s.tick(t, StatusFailure) }

// Selector ticks its children in priority order until one succeeds. It fails
// when every child fails and resumes at a running child on the next tick.
type Selector struct {
	composite
}

func NewSelector(name string, children ...Node) (*Selector, error) {
	c, err := newComposite("selector", name, false, children)
	if err != nil {
		return nil, err
	}
	return &Selector{composite: c}, nil
}

// NewReactiveSelector returns a selector that re-checks higher priority
// children on every tick.
func NewReactiveSelector(name string, children ...Node) (*Selector, error) {
	c, err := newComposite("reactive selector", name, true, children)
	if err != nil {
		return nil, err
	}
	return &Selector{composite: c}, nil
}

func (s *Selector) Tick(t TickContext) Status { return s.tick(t, StatusSuccess) }

// Parallel ticks every unfinished child on each tick and decides once enough
// children have succeeded or failed. Results of finished children are kept
// until the parallel node itself finishes.
type Parallel struct {
	baseNode
	children []Node
	results  []Status
	success  int
	failure  int
}

// NewParallel returns a parallel node that succeeds once success children
// succeeded and fails once failure children failed. A success threshold of
// zero or less requires every child; a failure threshold of zero or less
// fails on the first failure.
func NewParallel(name string, success, failure int, children ...Node) (*Parallel, error) {
	c, err := newComposite("parallel", name, false, children)
	if err != nil {
		return nil, err
	}
	n := len(c.children)
	if success <= 0 {
		success = n
	}
	if failure <= 0 {
		failure = 1
	}
	if success > n || failure > n {
		return nil, fmt.Errorf("parallel %q: thresholds %d/%d with %d children: %w", name, success, failure, n, ErrInvalidThreshold)
	}
	return &Parallel{
		baseNode: c.baseNode,
		children: c.children,
		results:  make([]Status, n),
		success:  success,
		failure:  failure,
	}, nil
}

func (p *Parallel) Children() []Node {
	out := make([]Node, len(p.children))
	copy(out, p.children)
	return out
}

func (p *Parallel) Tick(t TickContext) Status {
	succeeded, failed := 0, 0
	for i, ch := range p.children {
		if !p.results[i].Done() {
			if st := tickChild(t, ch); st.Done() {
				p.results[i] = st
			}
		}
		switch p.results[i] {
		case StatusSuccess:
			succeeded++
		case StatusFailure:
			failed++
		}
	}
	switch {
	case succeeded >= p.success:
		p.finish()
		return StatusSuccess
	case failed >= p.failure, len(p.children)-failed < p.success:
		p.finish()
		return StatusFailure
	}
	return StatusRunning
}

// finish clears the round and resets children that were still running.
func (p *Parallel) finish() {
	for i, ch := range p.children {
		if !p.results[i].Done() {
			Reset(ch)
		}
		p.results[i] = 0
	}
}

func (p *Parallel) Reset() {
	for i, ch := range p.children {
		p.results[i] = 0
		Reset(ch)
	}
}
