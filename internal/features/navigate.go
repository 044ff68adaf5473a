package features

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jask/appshell/internal/route"
	"github.com/jask/appshell/internal/store"
	"github.com/jask/appshell/internal/urlresolve"
)

// Module holds the settings the built-in features need.
type Module struct {
	// ServerDomain, when set, is the only host presented in-app; URLs on
	// other hosts redirect out of the app.
	ServerDomain string
	Log          logrus.FieldLogger
}

func (m *Module) logger() logrus.FieldLogger {
	if m.Log != nil {
		return m.Log
	}
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// Navigate returns the thunk opening rawURL in the mounted app. Bare room
// names resolve against the persisted server URL. It returns the route
// change's completion channel, or nil when nothing is mounted.
func (m *Module) Navigate(rawURL string) store.Action {
	return store.ThunkAction(func(dispatch store.Dispatch, getState func() store.State) any {
		state := getState()
		app, _ := store.Select[AppState](state, AppKey)
		log := m.logger().WithField("url", rawURL)
		if app.App == nil {
			log.Warn("navigate with no mounted app")
			return nil
		}

		loc, err := m.locate(rawURL, ServerURL(state))
		if err != nil {
			log.WithError(err).Warn("unparseable url, showing welcome page")
			return app.App.SetRoute(route.Component(route.ComponentRef{Name: PageWelcome}))
		}
		if m.leavesApp(loc) {
			return app.App.SetRoute(route.Redirect(loc.String()))
		}

		dispatch(LocationChanged{URL: loc.String()})
		if loc.Host != "" {
			dispatch(SettingsUpdated{ServerURL: (&url.URL{Scheme: loc.Scheme, Host: loc.Host}).String()})
		}
		return app.App.SetRoute(route.Component(PageFor(loc)))
	})
}

func (m *Module) locate(rawURL, serverURL string) (*url.URL, error) {
	raw := strings.TrimSpace(rawURL)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "" {
		return u, nil
	}
	base := serverURL
	if base == "" {
		base = urlresolve.FallbackURL
	}
	b, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if strings.HasPrefix(raw, "//") {
		u.Scheme = b.Scheme
		return u, nil
	}
	return b.ResolveReference(&url.URL{Path: "/" + strings.TrimPrefix(u.Path, "/"), RawQuery: u.RawQuery, Fragment: u.Fragment}), nil
}

func (m *Module) leavesApp(u *url.URL) bool {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return true
	}
	return m.ServerDomain != "" && !strings.EqualFold(u.Hostname(), m.ServerDomain)
}
