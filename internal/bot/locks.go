package bot

import "sync"

// ScopeLocks hands out one mutex per scope so read-modify-write cycles on a
// scope's session never interleave inside this process. Entries are dropped
// once no goroutine holds or waits for them.
type ScopeLocks struct {
	mu    sync.Mutex
	locks map[string]*scopeLock
}

type scopeLock struct {
	mu   sync.Mutex
	refs int
}

// NewScopeLocks returns an empty lock table.
func NewScopeLocks() *ScopeLocks {
	return &ScopeLocks{locks: map[string]*scopeLock{}}
}

// Lock blocks until scope is free and returns its unlock function.
func (l *ScopeLocks) Lock(scope string) (unlock func()) {
	l.mu.Lock()
	sl, ok := l.locks[scope]
	if !ok {
		sl = &scopeLock{}
		l.locks[scope] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, scope)
		}
		l.mu.Unlock()
	}
}

func (l *ScopeLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
