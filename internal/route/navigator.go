package route

import (
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
)

// Redirector navigates the host environment away from the app.
type Redirector interface {
	Redirect(href string)
}

// RedirectorFunc adapts a function to Redirector.
type RedirectorFunc func(href string)

func (f RedirectorFunc) Redirect(href string) { f(href) }

// Navigator holds the current route. SetRoute only mutates on a
// structural change, and never stores a redirect.
type Navigator struct {
	mu        sync.Mutex
	current   Route
	redirect  Redirector
	observers []func(Route)
	log       logrus.FieldLogger
}

// NewNavigator returns a navigator in the empty route.
func NewNavigator(redirect Redirector, log logrus.FieldLogger) *Navigator {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Navigator{redirect: redirect, log: log}
}

// OnCommit registers fn to run after every stored route change, before
// the change's completion signal fires.
func (n *Navigator) OnCommit(fn func(Route)) {
	if fn == nil {
		return
	}
	n.mu.Lock()
	n.observers = append(n.observers, fn)
	n.mu.Unlock()
}

// Current returns the stored route.
func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// SetRoute transitions to r. The returned channel is closed once the
// transition is committed; for no-ops and redirects it is already closed.
func (n *Navigator) SetRoute(r Route) <-chan struct{} {
	done := make(chan struct{})

	if href, ok := r.Href(); ok {
		if href == "" {
			n.log.Warn("ignoring redirect without a target")
			close(done)
			return done
		}
		n.log.WithField("href", href).Info("redirecting outside the app")
		if n.redirect != nil {
			n.redirect.Redirect(href)
		}
		close(done)
		return done
	}

	n.mu.Lock()
	if n.current.Equal(r) {
		n.mu.Unlock()
		close(done)
		return done
	}
	n.current = r
	observers := slices.Clone(n.observers)
	n.mu.Unlock()

	n.log.WithField("route", r.String()).Debug("route committed")
	for _, fn := range observers {
		fn(r)
	}
	close(done)
	return done
}

// App is the mounted application as seen by navigation actions.
type App interface {
	ID() string
	SetRoute(r Route) <-chan struct{}
}
