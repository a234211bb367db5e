package behavior

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TickContext is handed to every node on every tick. Composites and
// decorators pass it to their children unchanged.
type TickContext struct {
	Ctx   context.Context
	BB    Blackboard
	Tree  uuid.UUID
	Step  uint64
	Clock func() time.Time
	Log   *zap.Logger

	visits *int
}

// Now returns the current time of the tick's clock.
func (t TickContext) Now() time.Time {
	if t.Clock == nil {
		return time.Now()
	}
	return t.Clock()
}

// Logger returns the tick's logger, or a no-op logger when none is set.
func (t TickContext) Logger() *zap.Logger {
	if t.Log == nil {
		return zap.NewNop()
	}
	return t.Log
}

// tickChild ticks a child on behalf of its parent, counting the visit for the
// step's record.
func tickChild(t TickContext, n Node) Status {
	if t.visits != nil {
		*t.visits++
	}
	return normalize(n.Tick(t))
}

// Node is a unit of a behavior tree.
//
// Tick evaluates the node for the current step and must return one of
// StatusSuccess, StatusFailure or StatusRunning. A node returning
// StatusRunning is ticked again on a later step and must resume from where it
// stopped. Tick must not block.
type Node interface {
	Tick(t TickContext) Status
}

// Named is implemented by nodes that carry a human-readable name.
type Named interface {
	Name() string
}

// Parent is implemented by nodes that own children.
type Parent interface {
	Children() []Node
}

// Resetter is implemented by nodes holding progress between ticks. Reset
// returns the node, and the subtree it owns, to its idle state.
type Resetter interface {
	Reset()
}

// NameOf returns the name of n, or its type name when n is not Named.
func NameOf(n Node) string {
	if n == nil {
		return "<nil>"
	}
	if named, ok := n.(Named); ok && named.Name() != "" {
		return named.Name()
	}
	return TypeName(n)
}

// TypeName returns the type name of n without its package.
func TypeName(n Node) string {
	name := fmt.Sprintf("%T", n)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "*")
}

// Reset resets n when it supports it.
func Reset(n Node) {
	if r, ok := n.(Resetter); ok {
		r.Reset()
	}
}

type baseNode struct{ name string }

func (b baseNode) Name() string { return b.name }
