package game

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// Locks serialises writes per user so a collection or wallet is never
// loaded and saved by two operations at once.
type Locks struct {
	users *xsync.MapOf[string, *sync.Mutex]
}

func NewLocks() *Locks {
	return &Locks{users: xsync.NewMapOf[string, *sync.Mutex]()}
}

func (l *Locks) get(userID string) *sync.Mutex {
	mu, _ := l.users.LoadOrCompute(userID, func() *sync.Mutex { return &sync.Mutex{} })
	return mu
}

// Lock blocks until userID is free and returns the matching unlock.
func (l *Locks) Lock(userID string) func() {
	mu := l.get(userID)
	mu.Lock()
	return mu.Unlock
}

// TryLock is the non-blocking form used by background work; ok is false
// when an interactive command holds the user.
func (l *Locks) TryLock(userID string) (unlock func(), ok bool) {
	mu := l.get(userID)
	if !mu.TryLock() {
		return nil, false
	}
	return mu.Unlock, true
}
