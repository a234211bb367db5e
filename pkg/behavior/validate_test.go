package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loop is a parent node whose children can be rewired after construction.
type loop struct {
	children []Node
}

func (l *loop) Tick(TickContext) Status { return StatusSuccess }
func (l *loop) Children() []Node        { return l.children }

func TestValidateDetectsCycles(t *testing.T) {
	l := &loop{}
	l.children = []Node{Succeed("a"), l}
	err := Validate(l)
	assert.ErrorIs(t, err, ErrSharedNode)
	assert.Contains(t, err.Error(), "loop/1:loop")
}

func TestValidateDetectsNilChildren(t *testing.T) {
	err := Validate(&loop{children: []Node{Succeed("a"), nil}})
	assert.ErrorIs(t, err, ErrNilChild)
}

func TestValidateReportsPath(t *testing.T) {
	shared := Succeed("shared")
	inner, err := NewSequence("inner", shared)
	require.NoError(t, err)
	root, err := NewSelector("root", inner, shared)
	require.NoError(t, err)

	err = Validate(root)
	require.ErrorIs(t, err, ErrSharedNode)
	assert.Contains(t, err.Error(), "root/1:shared")
}

func TestWalkAndCount(t *testing.T) {
	inv, err := NewInverter("inv", Fail("f"))
	require.NoError(t, err)
	root, err := NewSequence("root", Succeed("a"), inv, Succeed("b"))
	require.NoError(t, err)

	type visit struct {
		name  string
		depth int
	}
	var got []visit
	Walk(root, func(n Node, depth int) bool {
		got = append(got, visit{NameOf(n), depth})
		return true
	})
	assert.Equal(t, []visit{{"root", 0}, {"a", 1}, {"inv", 1}, {"f", 2}, {"b", 1}}, got)
	assert.Equal(t, 5, Count(root))

	var pruned []string
	Walk(root, func(n Node, _ int) bool {
		pruned = append(pruned, NameOf(n))
		return NameOf(n) != "inv"
	})
	assert.Equal(t, []string{"root", "a", "inv", "b"}, pruned)
}

func TestNameOfFallsBackToType(t *testing.T) {
	assert.Equal(t, "loop", NameOf(&loop{}))
	assert.Equal(t, "named", NameOf(Succeed("named")))
	assert.Equal(t, "ActionFunc", NameOf(Succeed("")))
	assert.Equal(t, "ActionFunc", TypeName(Succeed("named")))
}
