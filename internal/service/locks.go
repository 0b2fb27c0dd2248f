package service

import "sync"

// SessionLocks serializes mutations per game session. The store itself
// has no transactions, so without this two concurrent read-modify-write
// cycles on the same session would silently drop the earlier write.
// Locks are never released back; sessions are few and short-lived.
type SessionLocks struct {
	locks sync.Map // gameID → *sync.Mutex
}

// NewSessionLocks creates an empty lock table.
func NewSessionLocks() *SessionLocks {
	return &SessionLocks{}
}

// Lock acquires the session's mutex and returns its unlock function.
//
//	defer locks.Lock(gameID)()
func (l *SessionLocks) Lock(gameID string) func() {
	v, _ := l.locks.LoadOrStore(gameID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
