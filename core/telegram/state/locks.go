package state

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Locks hands out one mutex per user ID. Entries are dropped as soon as no
// goroutine holds or waits for them, so the map stays bounded by the number
// of users with in-flight updates.
type Locks struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// NewLocks returns an empty lock table.
func NewLocks() *Locks {
	return &Locks{entries: make(map[int64]*entry)}
}

// Lock blocks until the caller owns userID and returns the release func.
func (l *Locks) Lock(userID int64) (unlock func()) {
	l.mu.Lock()
	e, ok := l.entries[userID]
	if !ok {
		e = &entry{}
		l.entries[userID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, userID)
		}
		l.mu.Unlock()
	}
}

// Len reports how many users currently hold or wait for a lock.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
