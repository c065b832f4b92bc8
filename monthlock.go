package messbill

import (
	"sync"

	"github.com/xraph/messbill/id"
	"github.com/xraph/messbill/types"
)

// monthMutex serializes lock-state transitions and guarded fact writes
// per (hostel, period). Two concurrent lock attempts on the same month
// resolve to one winner; operations on different months never contend.
type monthMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newMonthMutex() *monthMutex {
	return &monthMutex{locks: make(map[string]*lockEntry)}
}

// Acquire locks the given month and returns the release func. Entries
// are refcounted so the map does not grow with dead months.
func (m *monthMutex) Acquire(hostelID id.HostelID, period types.Period) func() {
	key := hostelID.String() + "|" + period.String()

	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &lockEntry{}
		m.locks[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		m.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(m.locks, key)
		}
		m.mu.Unlock()
	}
}
