package loader

import (
	"fmt"
	"math"
	"time"
)

// Params holds the free-form parameters of a node definition. Numbers arrive
// as int from YAML and float64 from JSON; the accessors accept both.
type Params map[string]any

// Has reports whether key is set.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the string at key, or def when absent.
func (p Params) String(key, def string) (string, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidParam, key, v)
	}
	return s, nil
}

// RequireString returns the non-empty string at key.
func (p Params) RequireString(key string) (string, error) {
	s, err := p.String(key, "")
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidParam, key)
	}
	return s, nil
}

// Int returns the integer at key, or def when absent.
func (p Params) Int(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, ok := number(v)
	if !ok || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidParam, key, v)
	}
	// -math.MinInt is MaxInt+1, exact as a float64.
	if f < math.MinInt || f >= -math.MinInt {
		return 0, fmt.Errorf("%w: %s is out of range, got %v", ErrInvalidParam, key, v)
	}
	return int(f), nil
}

// Float returns the number at key, or def when absent.
func (p Params) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, ok := number(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number, got %v", ErrInvalidParam, key, v)
	}
	return f, nil
}

// Bool returns the boolean at key, or def when absent.
func (p Params) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a boolean, got %v", ErrInvalidParam, key, v)
	}
	return b, nil
}

// Duration returns the duration at key written as a Go duration string
// ("1.5s", "200ms"), or def when absent.
func (p Params) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a duration string, got %v", ErrInvalidParam, key, v)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParam, key, err)
	}
	return d, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
