package features

import (
	"github.com/jask/appshell/internal/route"
	"github.com/jask/appshell/internal/store"
)

const (
	AppKey      = "features/app"
	SettingsKey = "features/settings"
)

// AppState tracks the mounted app and where it navigated last.
type AppState struct {
	App         route.App
	LocationURL string
}

// Settings is persisted across launches.
type Settings struct {
	ServerURL string `json:"serverURL,omitempty"`
}

func reduceApp(state any, action store.Action) any {
	s, _ := state.(AppState)
	switch a := action.(type) {
	case AppWillMount:
		s.App = a.App
	case AppWillUnmount:
		if s.App != nil && a.App != nil && s.App.ID() == a.App.ID() {
			s.App = nil
		}
	case LocationChanged:
		s.LocationURL = a.URL
	}
	return s
}

func reduceSettings(state any, action store.Action) any {
	s, _ := state.(Settings)
	if a, ok := action.(SettingsUpdated); ok {
		if a.ServerURL != "" {
			s.ServerURL = a.ServerURL
		}
	}
	return s
}

// ServerURL reads the persisted server URL setting.
func ServerURL(s store.State) string {
	settings, _ := store.Select[Settings](s, SettingsKey)
	return settings.ServerURL
}

// LocationURL reads the last navigated URL.
func LocationURL(s store.State) string {
	app, _ := store.Select[AppState](s, AppKey)
	return app.LocationURL
}
