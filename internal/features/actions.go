package features

import "github.com/jask/appshell/internal/route"

// AppWillMount announces that app is about to present routes.
type AppWillMount struct {
	App route.App
}

func (AppWillMount) ActionType() string { return "APP_WILL_MOUNT" }

// AppWillUnmount announces that app is going away.
type AppWillUnmount struct {
	App route.App
}

func (AppWillUnmount) ActionType() string { return "APP_WILL_UNMOUNT" }

// LocationChanged records the URL the app navigated to.
type LocationChanged struct {
	URL string
}

func (LocationChanged) ActionType() string { return "LOCATION_CHANGED" }

// SettingsUpdated merges the non-empty fields into the settings slice.
type SettingsUpdated struct {
	ServerURL string
}

func (SettingsUpdated) ActionType() string { return "SETTINGS_UPDATED" }
