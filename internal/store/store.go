package store

import (
	"fmt"
	"sync"
)

// Action is anything dispatched to the container. Plain values are
// reduced; ThunkAction values are run by the thunk middleware.
type Action any

// Typed actions report a stable name for logs and metrics.
type Typed interface {
	ActionType() string
}

// TypeOf names an action for diagnostics.
func TypeOf(a Action) string {
	if t, ok := a.(Typed); ok {
		return t.ActionType()
	}
	if _, ok := a.(ThunkAction); ok {
		return "thunk"
	}
	return fmt.Sprintf("%T", a)
}

// Init is reduced once when a container is created so reducers can
// install their defaults.
type Init struct{}

func (Init) ActionType() string { return "@@store/INIT" }

// State is the combined application state, one entry per reducer key.
// Values are treated as immutable; reducers return new values.
type State map[string]any

// Select returns the slice stored under key as T.
func Select[T any](s State, key string) (T, bool) {
	v, ok := s[key].(T)
	return v, ok
}

// Dispatch sends an action through the middleware chain.
type Dispatch func(action Action) any

// API is the view of the container handed to middleware and listeners.
type API interface {
	Dispatch(action Action) any
	GetState() State
}

// Inspector observes every reduced action. It is the development
// inspection hook and must not change what the container does.
type Inspector interface {
	Inspect(action Action, prev, next State)
}

// Option configures a Store at creation.
type Option func(*Store)

// WithMiddleware appends middleware; the first one given is outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(s *Store) {
		s.middleware = append(s.middleware, mw...)
	}
}

// WithInspector layers a development inspection hook onto the container.
// A nil inspector is ignored.
func WithInspector(i Inspector) Option {
	return func(s *Store) {
		if i != nil {
			s.inspector = i
		}
	}
}

// Store is the central state container.
type Store struct {
	mu        sync.Mutex
	reducer   RootReducer
	state     State
	listeners map[uint64]func()
	nextID    uint64

	middleware []Middleware
	inspector  Inspector
	dispatch   Dispatch
}

// New creates a container seeded with preloaded state.
func New(reducer RootReducer, preloaded State, opts ...Option) *Store {
	if reducer == nil {
		panic("store: nil reducer")
	}
	s := &Store{
		reducer:   reducer,
		state:     preloaded,
		listeners: map[uint64]func(){},
	}
	for _, opt := range opts {
		opt(s)
	}

	var d Dispatch = s.reduceAndNotify
	api := storeAPI{s: s}
	for i := len(s.middleware) - 1; i >= 0; i-- {
		d = s.middleware[i](api)(d)
	}
	s.dispatch = d

	s.reduceAndNotify(Init{})
	return s
}

// Dispatch sends action through the middleware chain to the reducer.
func (s *Store) Dispatch(action Action) any {
	return s.dispatch(action)
}

// GetState returns the current state.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to run after every reduced action.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// reduceAndNotify is the innermost dispatch. Reducers run under the lock
// and must not dispatch; listeners run after it is released.
func (s *Store) reduceAndNotify(action Action) any {
	if action == nil {
		return nil
	}
	s.mu.Lock()
	prev := s.state
	next := s.reducer(prev, action)
	if next == nil {
		next = State{}
	}
	s.state = next
	listeners := make([]func(), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	if s.inspector != nil {
		s.inspector.Inspect(action, prev, next)
	}
	for _, l := range listeners {
		l()
	}
	return action
}

type storeAPI struct{ s *Store }

func (a storeAPI) Dispatch(action Action) any { return a.s.Dispatch(action) }
func (a storeAPI) GetState() State            { return a.s.GetState() }
