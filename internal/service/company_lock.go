package service

import "sync"

// companyLocks entrega un mutex por empresa. Las entradas se liberan cuando
// no quedan usuarios esperando.
type companyLocks struct {
	mu    sync.Mutex
	locks map[string]*companyLock
}

type companyLock struct {
	mu   sync.Mutex
	refs int
}

func newCompanyLocks() *companyLocks {
	return &companyLocks{locks: make(map[string]*companyLock)}
}

// Lock bloquea la empresa y devuelve la función que la libera.
func (l *companyLocks) Lock(companyID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[companyID]
	if !ok {
		entry = &companyLock{}
		l.locks[companyID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, companyID)
		}
		l.mu.Unlock()
	}
}

func (l *companyLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
