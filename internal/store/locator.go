package store

import "sync"

// Locator hands the live container to collaborators that cannot receive
// it through dispatch or props. It is passed explicitly; there is no
// package-level instance.
type Locator struct {
	mu    sync.RWMutex
	store *Store
}

// Bind points the locator at s.
func (l *Locator) Bind(s *Store) {
	l.mu.Lock()
	l.store = s
	l.mu.Unlock()
}

// Store returns the bound container, if any.
func (l *Locator) Store() (*Store, bool) {
	if l == nil {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store, l.store != nil
}

// State returns the bound container's state, if any.
func (l *Locator) State() (State, bool) {
	s, ok := l.Store()
	if !ok {
		return nil, false
	}
	return s.GetState(), true
}
