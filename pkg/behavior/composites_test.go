package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceStopsOnFailure(t *testing.T) {
	var order []string
	a, b, c := leaf("a", &order, S), leaf("b", &order, F), leaf("c", &order, S)
	seq, err := NewSequence("seq", a, b, c)
	require.NoError(t, err)

	assert.Equal(t, StatusFailure, seq.Tick(tc()))
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 0, c.ticks)
	assert.Equal(t, idle, seq.Running())
}

func TestSelectorStopsOnSuccess(t *testing.T) {
	var order []string
	a, b, c := leaf("a", &order, F), leaf("b", &order, S), leaf("c", &order, S)
	sel, err := NewSelector("sel", a, b, c)
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, sel.Tick(tc()))
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 0, c.ticks)
	assert.Equal(t, idle, sel.Running())
}

func TestSequenceResumesRunningChild(t *testing.T) {
	var order []string
	a := leaf("a", &order, S)
	b := leaf("b", &order, R, S)
	c := leaf("c", &order, S)
	seq, err := NewSequence("seq", a, b, c)
	require.NoError(t, err)

	assert.Equal(t, StatusRunning, seq.Tick(tc()))
	assert.Equal(t, 1, seq.Running())
	assert.Equal(t, 0, c.ticks)

	assert.Equal(t, StatusSuccess, seq.Tick(tc()))
	assert.Equal(t, []string{"a", "b", "b", "c"}, order)
	assert.Equal(t, 1, a.ticks, "committed child must not be re-ticked")
	assert.Equal(t, idle, seq.Running())
}

func TestSequenceRestartsAfterFailure(t *testing.T) {
	a := leaf("a", nil, S)
	b := leaf("b", nil, R, F)
	seq, err := NewSequence("seq", a, b, leaf("c", nil, S))
	require.NoError(t, err)

	assert.Equal(t, StatusRunning, seq.Tick(tc()))
	assert.Equal(t, StatusFailure, seq.Tick(tc()))
	assert.Equal(t, 1, a.ticks)

	assert.Equal(t, StatusFailure, seq.Tick(tc()))
	assert.Equal(t, 2, a.ticks, "a finished sequence starts over at the first child")
}

func TestSelectorSingleTickOrder(t *testing.T) {
	var order []string
	a, b, c := leaf("a", &order, F), leaf("b", &order, F), leaf("c", &order, S)
	sel, err := NewSelector("sel", a, b, c)
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, sel.Tick(tc()))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	for _, n := range []*scripted{a, b, c} {
		assert.Equal(t, 1, n.ticks, n.name)
	}
}

func TestSelectorResumesRunningChild(t *testing.T) {
	var order []string
	a := leaf("a", &order, F)
	b := leaf("b", &order, R, F)
	c := leaf("c", &order, S)
	sel, err := NewSelector("sel", a, b, c)
	require.NoError(t, err)

	assert.Equal(t, StatusRunning, sel.Tick(tc()))
	assert.Equal(t, 1, sel.Running())
	assert.Equal(t, StatusSuccess, sel.Tick(tc()))
	assert.Equal(t, []string{"a", "b", "b", "c"}, order)
	assert.Equal(t, 1, a.ticks)
}

func TestSelectorAllFail(t *testing.T) {
	sel, err := NewSelector("sel", leaf("a", nil, F), leaf("b", nil, F))
	require.NoError(t, err)
	assert.Equal(t, StatusFailure, sel.Tick(tc()))
	assert.Equal(t, idle, sel.Running())
}

func TestReactiveSequenceRestartsEveryTick(t *testing.T) {
	a := leaf("a", nil, S)
	b := leaf("b", nil, R, S)
	seq, err := NewReactiveSequence("seq", a, b, leaf("c", nil, S))
	require.NoError(t, err)

	assert.Equal(t, StatusRunning, seq.Tick(tc()))
	assert.Equal(t, StatusSuccess, seq.Tick(tc()))
	assert.Equal(t, 2, a.ticks)
	assert.Equal(t, 0, b.resets)
}

func TestReactiveSelectorResetsPreemptedChild(t *testing.T) {
	high := leaf("high", nil, F, S)
	low := leaf("low", nil, R)
	sel, err := NewReactiveSelector("sel", high, low)
	require.NoError(t, err)

	assert.Equal(t, StatusRunning, sel.Tick(tc()))
	assert.Equal(t, 1, sel.Running())

	assert.Equal(t, StatusSuccess, sel.Tick(tc()))
	assert.Equal(t, 1, low.resets, "pre-empted running child is reset")
	assert.Equal(t, 1, low.ticks)
	assert.Equal(t, idle, sel.Running())
}

func TestCompositeConstruction(t *testing.T) {
	ctors := map[string]func(string, ...Node) (Node, error){
		"sequence": func(n string, c ...Node) (Node, error) { return NewSequence(n, c...) },
		"selector": func(n string, c ...Node) (Node, error) { return NewSelector(n, c...) },
		"reactive sequence": func(n string, c ...Node) (Node, error) {
			return NewReactiveSequence(n, c...)
		},
		"reactive selector": func(n string, c ...Node) (Node, error) {
			return NewReactiveSelector(n, c...)
		},
		"parallel": func(n string, c ...Node) (Node, error) { return NewParallel(n, 0, 0, c...) },
	}
	for name, ctor := range ctors {
		t.Run(name, func(t *testing.T) {
			_, err := ctor("empty")
			assert.ErrorIs(t, err, ErrNoChildren)

			_, err = ctor("nil", Succeed("ok"), nil)
			assert.ErrorIs(t, err, ErrNilChild)

			var typedNil *Sequence
			_, err = ctor("typed nil", typedNil)
			assert.ErrorIs(t, err, ErrNilChild)
		})
	}
}

func TestCompositeChildrenAreCopied(t *testing.T) {
	children := []Node{Succeed("a"), Succeed("b")}
	seq, err := NewSequence("seq", children...)
	require.NoError(t, err)

	children[0] = Fail("swapped")
	assert.Equal(t, StatusSuccess, seq.Tick(tc()))

	got := seq.Children()
	got[1] = Fail("swapped")
	assert.Equal(t, StatusSuccess, seq.Tick(tc()))
}

func TestCompositeReset(t *testing.T) {
	a := leaf("a", nil, S)
	b := leaf("b", nil, R)
	seq, err := NewSequence("seq", a, b)
	require.NoError(t, err)

	require.Equal(t, StatusRunning, seq.Tick(tc()))
	seq.Reset()
	assert.Equal(t, idle, seq.Running())
	assert.Equal(t, 1, a.resets)
	assert.Equal(t, 1, b.resets)

	seq.Tick(tc())
	assert.Equal(t, 2, a.ticks)
}

func TestParallel(t *testing.T) {
	t.Run("succeeds at threshold and resets running children", func(t *testing.T) {
		a := leaf("a", nil, S)
		b := leaf("b", nil, R, S)
		c := leaf("c", nil, R)
		p, err := NewParallel("par", 2, 2, a, b, c)
		require.NoError(t, err)

		assert.Equal(t, StatusRunning, p.Tick(tc()))
		assert.Equal(t, StatusSuccess, p.Tick(tc()))
		assert.Equal(t, 1, a.ticks, "finished children wait for the round")
		assert.Equal(t, 1, c.resets)
	})

	t.Run("default thresholds fail on first failure", func(t *testing.T) {
		p, err := NewParallel("par", 0, 0, leaf("a", nil, S), leaf("b", nil, F))
		require.NoError(t, err)
		assert.Equal(t, StatusFailure, p.Tick(tc()))
	})

	t.Run("fails when success is unreachable", func(t *testing.T) {
		p, err := NewParallel("par", 3, 3, leaf("a", nil, F), leaf("b", nil, R), leaf("c", nil, R))
		require.NoError(t, err)
		assert.Equal(t, StatusFailure, p.Tick(tc()))
	})

	t.Run("new round after completion", func(t *testing.T) {
		a := leaf("a", nil, S)
		p, err := NewParallel("par", 0, 0, a)
		require.NoError(t, err)
		assert.Equal(t, StatusSuccess, p.Tick(tc()))
		assert.Equal(t, StatusSuccess, p.Tick(tc()))
		assert.Equal(t, 2, a.ticks)
	})

	t.Run("rejects thresholds above child count", func(t *testing.T) {
		_, err := NewParallel("par", 3, 1, Succeed("a"), Succeed("b"))
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	})
}

func TestInvalidChildStatusIsFailure(t *testing.T) {
	bogus := Action("bogus", func(TickContext) Status { return Status(42) })
	seq, err := NewSequence("seq", bogus, Succeed("after"))
	require.NoError(t, err)
	assert.Equal(t, StatusFailure, seq.Tick(tc()))
}
