package behavior

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func ticks(n Node, count int) []Status {
	out := make([]Status, 0, count)
	for range count {
		out = append(out, n.Tick(tc()))
	}
	return out
}

func TestInverter(t *testing.T) {
	cases := map[Status]Status{S: F, F: S, R: R}
	for in, want := range cases {
		inv, err := NewInverter("inv", leaf("x", nil, in))
		require.NoError(t, err)
		assert.Equal(t, want, inv.Tick(tc()), in.String())
	}
}

func TestDoubleInversionIsIdentity(t *testing.T) {
	script := []Status{S, F, R, S, F}
	inner, err := NewInverter("inner", leaf("x", nil, script...))
	require.NoError(t, err)
	outer, err := NewInverter("outer", inner)
	require.NoError(t, err)

	assert.Equal(t, script, ticks(outer, len(script)))
}

func TestSucceederAndFailer(t *testing.T) {
	succ, err := NewSucceeder("succ", leaf("x", nil, F, S, R))
	require.NoError(t, err)
	assert.Equal(t, []Status{S, S, R}, ticks(succ, 3))

	fail, err := NewFailer("fail", leaf("x", nil, S, F, R))
	require.NoError(t, err)
	assert.Equal(t, []Status{F, F, R}, ticks(fail, 3))
}

func TestDecoratorRequiresChild(t *testing.T) {
	ctors := map[string]func() error{
		"inverter":  func() error { _, err := NewInverter("d", nil); return err },
		"succeeder": func() error { _, err := NewSucceeder("d", nil); return err },
		"failer":    func() error { _, err := NewFailer("d", nil); return err },
		"repeater":  func() error { _, err := NewRepeater("d", 2, nil); return err },
		"until success": func() error {
			_, err := NewUntilSuccess("d", 2, nil)
			return err
		},
		"until failure": func() error {
			_, err := NewUntilFailure("d", 2, nil)
			return err
		},
		"timeout": func() error { _, err := NewTimeout("d", 2, nil); return err },
		"counter": func() error { _, err := NewCounter("d", "k", nil); return err },
		"cooldown": func() error {
			_, err := NewCooldown("d", time.Second, false, nil)
			return err
		},
	}
	for name, ctor := range ctors {
		assert.ErrorIs(t, ctor(), ErrNoChild, name)
	}
}

func TestRepeater(t *testing.T) {
	t.Run("runs child count times then succeeds", func(t *testing.T) {
		child := leaf("x", nil, S)
		r, err := NewRepeater("rep", 3, child)
		require.NoError(t, err)

		assert.Equal(t, []Status{R, R, S}, ticks(r, 3))
		assert.Equal(t, 3, r.Remaining())
		assert.Equal(t, []Status{R, R, S}, ticks(r, 3))
		assert.Equal(t, 6, child.ticks)
	})

	t.Run("running child does not consume a repetition", func(t *testing.T) {
		r, err := NewRepeater("rep", 2, leaf("x", nil, R, S))
		require.NoError(t, err)
		assert.Equal(t, []Status{R, R, S}, ticks(r, 3))
	})

	t.Run("default policy succeeds on failing child", func(t *testing.T) {
		r, err := NewRepeater("rep", 2, leaf("x", nil, F))
		require.NoError(t, err)
		assert.Equal(t, []Status{R, S}, ticks(r, 2))
	})

	t.Run("last result policy propagates failure", func(t *testing.T) {
		r, err := NewRepeater("rep", 2, leaf("x", nil, F), WithRepeatPolicy(RepeatLastResult))
		require.NoError(t, err)
		assert.Equal(t, []Status{R, F}, ticks(r, 2))
	})

	t.Run("non-positive count repeats forever", func(t *testing.T) {
		r, err := NewRepeater("rep", 0, leaf("x", nil, S))
		require.NoError(t, err)
		for _, st := range ticks(r, 10) {
			assert.Equal(t, StatusRunning, st)
		}
	})

	t.Run("reset restores the count", func(t *testing.T) {
		r, err := NewRepeater("rep", 3, leaf("x", nil, S))
		require.NoError(t, err)
		ticks(r, 2)
		assert.Equal(t, 1, r.Remaining())
		r.Reset()
		assert.Equal(t, 3, r.Remaining())
	})
}

func TestUntilSuccess(t *testing.T) {
	u, err := NewUntilSuccess("until", 3, leaf("x", nil, F))
	require.NoError(t, err)
	assert.Equal(t, []Status{R, R, F, R}, ticks(u, 4))

	u, err = NewUntilSuccess("until", 3, leaf("x", nil, F, F, S))
	require.NoError(t, err)
	assert.Equal(t, []Status{R, R, S}, ticks(u, 3))
}

func TestUntilFailure(t *testing.T) {
	u, err := NewUntilFailure("until", 0, leaf("x", nil, S, S, F))
	require.NoError(t, err)
	assert.Equal(t, []Status{R, R, S}, ticks(u, 3))

	u, err = NewUntilFailure("until", 2, leaf("x", nil, S))
	require.NoError(t, err)
	assert.Equal(t, []Status{R, F}, ticks(u, 2))
}

func TestTimeout(t *testing.T) {
	t.Run("fails a child running too long", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		child := leaf("x", nil, R)
		d, err := NewTimeout("deadline", 3, child)
		require.NoError(t, err)

		ctx := tc()
		ctx.Log = zap.New(core)
		assert.Equal(t, StatusRunning, d.Tick(ctx))
		assert.Equal(t, StatusRunning, d.Tick(ctx))
		assert.Equal(t, 2, d.Elapsed())
		assert.Equal(t, StatusFailure, d.Tick(ctx))
		assert.Equal(t, 0, d.Elapsed())
		assert.Equal(t, 1, child.resets)

		entries := logs.FilterMessage("timeout expired").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "deadline", entries[0].ContextMap()["node"])
	})

	t.Run("passes through a finished child", func(t *testing.T) {
		d, err := NewTimeout("deadline", 3, leaf("x", nil, R, S))
		require.NoError(t, err)
		assert.Equal(t, []Status{R, S}, ticks(d, 2))
		assert.Equal(t, 0, d.Elapsed())
	})

	t.Run("rejects non-positive ticks", func(t *testing.T) {
		_, err := NewTimeout("deadline", 0, Succeed("x"))
		assert.ErrorIs(t, err, ErrInvalidCount)
	})
}

func TestCounter(t *testing.T) {
	c, err := NewCounter("visits", "", leaf("x", nil, F))
	require.NoError(t, err)

	ctx := tc()
	assert.Equal(t, StatusFailure, c.Tick(ctx))
	assert.Equal(t, StatusFailure, c.Tick(ctx))
	assert.Equal(t, 2, c.Count())

	got, ok := Value[int](ctx.BB, "visits")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestCooldown(t *testing.T) {
	now := time.Unix(0, 0)
	ctx := tc()
	ctx.Clock = func() time.Time { return now }

	child := leaf("x", nil, S, F, S)
	d, err := NewCooldown("cool", time.Second, false, child)
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, d.Tick(ctx))
	now = now.Add(500 * time.Millisecond)
	assert.Equal(t, StatusFailure, d.Tick(ctx))
	assert.Equal(t, 1, child.ticks, "child is not ticked while cooling down")

	now = now.Add(500 * time.Millisecond)
	assert.Equal(t, StatusFailure, d.Tick(ctx))
	assert.Equal(t, 2, child.ticks)

	d.Reset()
	assert.Equal(t, StatusSuccess, d.Tick(ctx))

	_, err = NewCooldown("cool", 0, false, child)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	_, err = NewCooldown("cool", -time.Second, false, child)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestCooldownSuccessOnly(t *testing.T) {
	now := time.Unix(0, 0)
	ctx := tc()
	ctx.Clock = func() time.Time { return now }

	d, err := NewCooldown("cool", time.Minute, true, leaf("x", nil, F, F, S, S))
	require.NoError(t, err)
	assert.Equal(t, []Status{F, F, S}, []Status{d.Tick(ctx), d.Tick(ctx), d.Tick(ctx)})
	assert.Equal(t, StatusFailure, d.Tick(ctx), "cooling down after success")
}
