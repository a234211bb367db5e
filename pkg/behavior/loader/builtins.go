package loader

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"go.uber.org/zap"

	"github.com/zeusync/behave/pkg/behavior"
)

// RegisterBuiltins registers the leaves every definition can use without
// application code.
//
// Actions: succeed, fail, set (key, value), increment (key, by), wait_ticks
// (ticks), wait (duration), log (msg, key). Conditions: is_true (key),
// equals (key, value), has (key), expr (expr).
func RegisterBuiltins(r *Registry) {
	r.RegisterAction("succeed", func(name string, _ Params) (behavior.Node, error) {
		return behavior.Succeed(name), nil
	})
	r.RegisterAction("fail", func(name string, _ Params) (behavior.Node, error) {
		return behavior.Fail(name), nil
	})
	r.RegisterAction("set", func(name string, p Params) (behavior.Node, error) {
		key, err := p.RequireString("key")
		if err != nil {
			return nil, err
		}
		if !p.Has("value") {
			return nil, fmt.Errorf("%w: value is required", ErrInvalidParam)
		}
		value := p["value"]
		return behavior.Action(name, func(t behavior.TickContext) behavior.Status {
			t.BB.Set(key, value)
			return behavior.StatusSuccess
		}), nil
	})
	r.RegisterAction("increment", func(name string, p Params) (behavior.Node, error) {
		key, err := p.RequireString("key")
		if err != nil {
			return nil, err
		}
		by, err := p.Float("by", 1)
		if err != nil {
			return nil, err
		}
		return behavior.Action(name, func(t behavior.TickContext) behavior.Status {
			cur, ok := behavior.Number(t.BB, key)
			if !ok {
				if _, exists := t.BB.Get(key); exists {
					return behavior.StatusFailure
				}
			}
			t.BB.Set(key, cur+by)
			return behavior.StatusSuccess
		}), nil
	})
	r.RegisterAction("wait_ticks", func(name string, p Params) (behavior.Node, error) {
		n, err := p.Int("ticks", 0)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("%w: ticks must be positive", ErrInvalidParam)
		}
		return behavior.WaitTicks(name, n), nil
	})
	r.RegisterAction("wait", func(name string, p Params) (behavior.Node, error) {
		d, err := p.Duration("duration", 0)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidParam)
		}
		return behavior.Wait(name, d), nil
	})
	r.RegisterAction("log", func(name string, p Params) (behavior.Node, error) {
		msg, err := p.RequireString("msg")
		if err != nil {
			return nil, err
		}
		key, err := p.String("key", "")
		if err != nil {
			return nil, err
		}
		return behavior.Action(name, func(t behavior.TickContext) behavior.Status {
			fields := []zap.Field{zap.String("node", name), zap.Uint64("step", t.Step)}
			if key != "" {
				v, _ := t.BB.Get(key)
				fields = append(fields, zap.Any(key, v))
			}
			t.Logger().Info(msg, fields...)
			return behavior.StatusSuccess
		}), nil
	})

	r.RegisterCondition("is_true", func(name string, p Params) (behavior.Node, error) {
		key, err := p.RequireString("key")
		if err != nil {
			return nil, err
		}
		return behavior.Condition(name, func(t behavior.TickContext) bool {
			v, _ := behavior.Value[bool](t.BB, key)
			return v
		}), nil
	})
	r.RegisterCondition("equals", func(name string, p Params) (behavior.Node, error) {
		key, err := p.RequireString("key")
		if err != nil {
			return nil, err
		}
		if !p.Has("value") {
			return nil, fmt.Errorf("%w: value is required", ErrInvalidParam)
		}
		want := p["value"]
		wantNum, numeric := number(want)
		return behavior.Condition(name, func(t behavior.TickContext) bool {
			if numeric {
				got, ok := behavior.Number(t.BB, key)
				return ok && got == wantNum
			}
			got, ok := t.BB.Get(key)
			return ok && reflect.DeepEqual(got, want)
		}), nil
	})
	r.RegisterCondition("has", func(name string, p Params) (behavior.Node, error) {
		key, err := p.RequireString("key")
		if err != nil {
			return nil, err
		}
		return behavior.Condition(name, func(t behavior.TickContext) bool {
			_, ok := t.BB.Get(key)
			return ok
		}), nil
	})
	r.RegisterCondition("expr", func(name string, p Params) (behavior.Node, error) {
		src, err := p.RequireString("expr")
		if err != nil {
			return nil, err
		}
		program, err := expr.Compile(src, expr.Env(map[string]any{}), expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("%w: expr: %v", ErrInvalidParam, err)
		}
		return behavior.Fallible(name, func(t behavior.TickContext) (behavior.Status, error) {
			out, err := expr.Run(program, t.BB.Snapshot())
			if err != nil {
				return behavior.StatusFailure, err
			}
			ok, isBool := out.(bool)
			if !isBool {
				return behavior.StatusFailure, fmt.Errorf("expression %q returned %T, want bool", src, out)
			}
			if ok {
				return behavior.StatusSuccess, nil
			}
			return behavior.StatusFailure, nil
		}), nil
	})
}
