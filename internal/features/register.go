package features

import (
	"github.com/sirupsen/logrus"

	"github.com/jask/appshell/internal/lifecycle"
	"github.com/jask/appshell/internal/persist"
	"github.com/jask/appshell/internal/route"
	"github.com/jask/appshell/internal/store"
)

// Registries are the extension points features register into.
type Registries struct {
	Reducers    *store.ReducerRegistry
	Middleware  *store.MiddlewareRegistry
	Listeners   *store.ListenerRegistry
	Persistence *persist.Registry
}

// Register installs the built-in reducers, persisted slices and
// listeners.
func (m *Module) Register(r Registries) {
	r.Reducers.Register(AppKey, reduceApp)
	r.Reducers.Register(SettingsKey, reduceSettings)

	if r.Persistence != nil {
		persist.Register[Settings](r.Persistence, SettingsKey)
		if r.Listeners != nil {
			r.Persistence.Attach(r.Listeners)
		}
	}
	if r.Listeners != nil {
		r.Listeners.Register(LocationURLSelector, func(selected any, _ store.API, prev any) {
			m.logger().WithFields(logrus.Fields{"from": prev, "to": selected}).Info("location changed")
		})
	}
}

// LocationURLSelector selects the last navigated URL, nil until the first navigation.
func LocationURLSelector(s store.State) any {
	if u := LocationURL(s); u != "" {
		return u
	}
	return nil
}

// Actions returns the lifecycle actions backed by this module.
func (m *Module) Actions() lifecycle.Actions {
	return lifecycle.Actions{
		WillMount:   func(app route.App) store.Action { return AppWillMount{App: app} },
		WillUnmount: func(app route.App) store.Action { return AppWillUnmount{App: app} },
		Navigate:    m.Navigate,
	}
}
