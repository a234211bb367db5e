package behavior

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record describes one completed step of a tree. Nodes counts the nodes
// ticked during the step, the root included; children ticked directly by a
// custom parent are not counted.
type Record struct {
	Tree     uuid.UUID     `json:"tree"`
	Name     string        `json:"name"`
	Step     uint64        `json:"step"`
	Status   Status        `json:"status,omitempty"`
	Nodes    int           `json:"nodes"`
	Duration time.Duration `json:"duration"`
	Time     time.Time     `json:"ts"`
}

// Observer is notified after every step of a tree. Observers run on the
// goroutine advancing the tree and should return quickly.
type Observer interface {
	Observe(rec Record)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(rec Record)

func (f ObserverFunc) Observe(rec Record) { f(rec) }

// History keeps the most recent step records of one or more trees.
type History struct {
	mu    sync.RWMutex
	limit int
	list  []Record
}

// NewHistory returns a history holding at most limit records; limit of zero
// or less keeps everything.
func NewHistory(limit int) *History {
	capacity := limit
	if capacity <= 0 || capacity > 128 {
		capacity = 128
	}
	return &History{limit: limit, list: make([]Record, 0, capacity)}
}

func (h *History) Observe(rec Record) {
	h.mu.Lock()
	h.list = append(h.list, rec)
	if h.limit > 0 && len(h.list) > h.limit {
		h.list = append(h.list[:0], h.list[len(h.list)-h.limit:]...)
	}
	h.mu.Unlock()
}

// Records returns a copy of the retained records, oldest first.
func (h *History) Records() []Record {
	h.mu.RLock()
	cp := make([]Record, len(h.list))
	copy(cp, h.list)
	h.mu.RUnlock()
	return cp
}

// Statuses returns the statuses of the retained records, oldest first.
func (h *History) Statuses() []Status {
	h.mu.RLock()
	out := make([]Status, len(h.list))
	for i, rec := range h.list {
		out[i] = rec.Status
	}
	h.mu.RUnlock()
	return out
}

func (h *History) Reset() {
	h.mu.Lock()
	h.list = h.list[:0]
	h.mu.Unlock()
}
