package behavior

import (
	"sort"
	"strings"
	"sync"
)

// Blackboard is the shared key/value store nodes read and write while
// ticking. The engine never interprets its contents.
type Blackboard interface {
	// Get retrieves a value by key. Returns (nil, false) if absent.
	Get(key string) (any, bool)
	// Set assigns a value by key.
	Set(key string, value any)
	// Delete removes a value by key.
	Delete(key string)
	// Keys returns the existing keys in sorted order.
	Keys() []string
	// Namespace returns a view whose keys are prefixed with "ns:". A colon in
	// ns becomes an underscore; keys are stored as given, so a key "b:c" in
	// view "a" is the key "c" of the nested view "a" then "b".
	Namespace(ns string) Blackboard
	// Snapshot returns a shallow copy of the visible entries.
	Snapshot() map[string]any
}

// bbMap is a thread-safe map-based blackboard.
type bbMap struct {
	mu     sync.RWMutex
	data   map[string]any
	prefix string
	root   *bbMap
}

// NewBlackboard creates an empty root blackboard.
func NewBlackboard() Blackboard {
	m := &bbMap{data: make(map[string]any)}
	m.root = m
	return m
}

func (b *bbMap) fullKey(key string) string {
	if b.prefix == "" {
		return key
	}
	return b.prefix + ":" + key
}

func (b *bbMap) Get(key string) (any, bool) {
	bb := b.root
	bb.mu.RLock()
	defer bb.mu.RUnlock()
	v, ok := bb.data[b.fullKey(key)]
	return v, ok
}

func (b *bbMap) Set(key string, value any) {
	bb := b.root
	bb.mu.Lock()
	bb.data[b.fullKey(key)] = value
	bb.mu.Unlock()
}

func (b *bbMap) Delete(key string) {
	bb := b.root
	bb.mu.Lock()
	delete(bb.data, b.fullKey(key))
	bb.mu.Unlock()
}

func (b *bbMap) Namespace(ns string) Blackboard {
	ns = strings.ReplaceAll(ns, ":", "_")
	return &bbMap{root: b.root, prefix: b.fullKey(ns)}
}

func (b *bbMap) Keys() []string {
	snap := b.Snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *bbMap) Snapshot() map[string]any {
	bb := b.root
	bb.mu.RLock()
	defer bb.mu.RUnlock()
	out := make(map[string]any)
	pref := ""
	if b.prefix != "" {
		pref = b.prefix + ":"
	}
	for k, v := range bb.data {
		if strings.HasPrefix(k, pref) {
			out[strings.TrimPrefix(k, pref)] = v
		}
	}
	return out
}

// Value reads key from bb and asserts it to T.
func Value[T any](bb Blackboard, key string) (T, bool) {
	var zero T
	if bb == nil {
		return zero, false
	}
	v, ok := bb.Get(key)
	if !ok {
		return zero, false
	}
	tv, ok := v.(T)
	return tv, ok
}

// Number reads key from bb as a float64, accepting any Go numeric type.
func Number(bb Blackboard, key string) (float64, bool) {
	if bb == nil {
		return 0, false
	}
	v, ok := bb.Get(key)
	if !ok {
		return 0, false
	}
	return toFloat64(v)
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
