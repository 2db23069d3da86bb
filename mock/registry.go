package mock

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tabsye/waitlist/tracker"
)

// Entry is one registered signup.
type Entry struct {
	ID        string       `json:"id"`
	Type      tracker.Kind `json:"type"`
	Value     string       `json:"value"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	CreatedAt time.Time    `json:"createdAt"`
}

// registry keeps signups keyed by canonical contact key.
type registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]*Entry)}
}

// add stores e unless its contact key is already present. Returns false on
// duplicate.
func (r *registry) add(e *Entry) bool {
	key := tracker.Key(e.Type, e.Value)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; ok {
		return false
	}
	e.ID = uuid.NewString()
	r.entries[key] = e
	r.order = append(r.order, key)
	return true
}

func (r *registry) exists(kind tracker.Kind, value string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[tracker.Key(kind, value)]
	return ok
}

func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// snapshot returns a copy of all entries in registration order.
func (r *registry) snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Entry, 0, len(r.order))
	for _, key := range r.order {
		list = append(list, *r.entries[key])
	}
	return list
}
