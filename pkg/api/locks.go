package api

import "sync"

// sessionLocks serializes requests touching the same cart slot, so each
// load, mutation and save runs as one step. Entries are dropped once no
// request holds or waits on them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// lock blocks until sid is free and returns the matching unlock.
func (l *sessionLocks) lock(sid string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sessionLock)
	}
	sl, ok := l.locks[sid]
	if !ok {
		sl = &sessionLock{}
		l.locks[sid] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, sid)
		}
		l.mu.Unlock()
	}
}
