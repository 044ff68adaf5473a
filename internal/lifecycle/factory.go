package lifecycle

import (
	"github.com/sirupsen/logrus"

	"github.com/jask/appshell/internal/store"
)

// ContainerFactory creates the state container.
type ContainerFactory interface {
	Create() *store.Store
}

// PersistedStater provides the seed state for a new container.
type PersistedStater interface {
	PersistedState() store.State
}

// Factory assembles a container from the feature registries.
type Factory struct {
	Reducers    *store.ReducerRegistry
	Middleware  *store.MiddlewareRegistry
	Listeners   *store.ListenerRegistry
	Persistence PersistedStater
	// Inspector is the optional development inspection hook.
	Inspector store.Inspector
	// Locator, when set, is bound to the new container for collaborators
	// that cannot receive it any other way.
	Locator *store.Locator
	Log     logrus.FieldLogger
}

// Create combines the registered reducers, applies the registered
// middleware plus the thunk middleware, seeds persisted state and
// subscribes the registered listeners.
func (f *Factory) Create() *store.Store {
	reducers := f.Reducers
	if reducers == nil {
		reducers = store.NewReducerRegistry()
	}
	middleware := f.Middleware
	if middleware == nil {
		middleware = store.NewMiddlewareRegistry()
	}

	var seed store.State
	if f.Persistence != nil {
		seed = f.Persistence.PersistedState()
	}

	opts := []store.Option{middleware.Apply(store.Thunk())}
	if f.Inspector != nil {
		opts = append(opts, store.WithInspector(f.Inspector))
	}
	s := store.New(reducers.Combine(), seed, opts...)

	if f.Listeners != nil {
		f.Listeners.Subscribe(s)
	}
	if f.Locator != nil {
		f.Locator.Bind(s)
	}
	if f.Log != nil {
		f.Log.WithFields(logrus.Fields{
			"seeded":  len(seed),
			"inspect": f.Inspector != nil,
		}).Debug("state container created")
	}
	return s
}
