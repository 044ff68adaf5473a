package store

import (
	"reflect"
	"sync"
)

// ReducerRegistry collects feature reducers by state key.
type ReducerRegistry struct {
	mu       sync.Mutex
	reducers map[string]Reducer
}

func NewReducerRegistry() *ReducerRegistry {
	return &ReducerRegistry{reducers: map[string]Reducer{}}
}

// Register adds reducer under key, replacing any previous one.
func (r *ReducerRegistry) Register(key string, reducer Reducer) {
	if key == "" || reducer == nil {
		return
	}
	r.mu.Lock()
	r.reducers[key] = reducer
	r.mu.Unlock()
}

// Combine returns one root reducer over everything registered so far.
func (r *ReducerRegistry) Combine() RootReducer {
	r.mu.Lock()
	snapshot := make(map[string]Reducer, len(r.reducers))
	for k, v := range r.reducers {
		snapshot[k] = v
	}
	r.mu.Unlock()
	return CombineReducers(snapshot)
}

// MiddlewareRegistry collects feature middleware in registration order.
type MiddlewareRegistry struct {
	mu    sync.Mutex
	items []Middleware
}

func NewMiddlewareRegistry() *MiddlewareRegistry {
	return &MiddlewareRegistry{}
}

func (r *MiddlewareRegistry) Register(mw Middleware) {
	if mw == nil {
		return
	}
	r.mu.Lock()
	r.items = append(r.items, mw)
	r.mu.Unlock()
}

// Apply returns an Option installing the registered middleware followed
// by additional ones.
func (r *MiddlewareRegistry) Apply(additional ...Middleware) Option {
	r.mu.Lock()
	all := make([]Middleware, 0, len(r.items)+len(additional))
	all = append(all, r.items...)
	r.mu.Unlock()
	for _, mw := range additional {
		if mw != nil {
			all = append(all, mw)
		}
	}
	return WithMiddleware(all...)
}

// Selector derives the value a Listener is interested in.
type Selector func(state State) any

// Listener is called when its selector's value changes. prev is nil on
// the first call.
type Listener func(selected any, api API, prev any)

type listenerEntry struct {
	selector Selector
	listener Listener
}

// ListenerRegistry collects derived-state listeners. Values are compared
// structurally, so selectors may build fresh values on every call.
type ListenerRegistry struct {
	mu      sync.Mutex
	entries []listenerEntry
}

func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{}
}

func (r *ListenerRegistry) Register(selector Selector, listener Listener) {
	if selector == nil || listener == nil {
		return
	}
	r.mu.Lock()
	r.entries = append(r.entries, listenerEntry{selector: selector, listener: listener})
	r.mu.Unlock()
}

// Subscribe attaches every registered listener to s. Each listener is
// evaluated once immediately and then after every reduced action.
func (r *ListenerRegistry) Subscribe(s *Store) (unsubscribe func()) {
	r.mu.Lock()
	entries := append([]listenerEntry(nil), r.entries...)
	r.mu.Unlock()

	sub := &subscription{store: s, entries: entries, prev: make([]any, len(entries))}
	sub.run()
	return s.Subscribe(sub.run)
}

type subscription struct {
	mu      sync.Mutex
	store   *Store
	entries []listenerEntry
	prev    []any
}

type pendingCall struct {
	listener Listener
	selected any
	prev     any
}

func (s *subscription) run() {
	state := s.store.GetState()

	s.mu.Lock()
	var calls []pendingCall
	for i, e := range s.entries {
		selected := e.selector(state)
		if reflect.DeepEqual(selected, s.prev[i]) {
			continue
		}
		calls = append(calls, pendingCall{listener: e.listener, selected: selected, prev: s.prev[i]})
		s.prev[i] = selected
	}
	s.mu.Unlock()

	for _, c := range calls {
		c.listener(c.selected, s.store, c.prev)
	}
}
