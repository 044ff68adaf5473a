package features

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/appshell/internal/database/repository"
	"github.com/jask/appshell/internal/persist"
	"github.com/jask/appshell/internal/route"
	"github.com/jask/appshell/internal/store"
	"github.com/jask/appshell/internal/urlresolve"
)

type fakeApp struct {
	id     string
	mu     sync.Mutex
	routes []route.Route
}

func (a *fakeApp) ID() string { return a.id }

func (a *fakeApp) SetRoute(r route.Route) <-chan struct{} {
	a.mu.Lock()
	a.routes = append(a.routes, r)
	a.mu.Unlock()
	done := make(chan struct{})
	close(done)
	return done
}

func (a *fakeApp) last(t *testing.T) route.Route {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.NotEmpty(t, a.routes)
	return a.routes[len(a.routes)-1]
}

type memSnapshots struct{ saved map[string][]byte }

func (m *memSnapshots) List(context.Context) ([]repository.Snapshot, error) {
	var out []repository.Snapshot
	for k, v := range m.saved {
		out = append(out, repository.Snapshot{Key: k, Value: v})
	}
	return out, nil
}

func (m *memSnapshots) Upsert(_ context.Context, key string, value []byte) (string, error) {
	m.saved[key] = value
	return "r", nil
}

func newStore(t *testing.T, m *Module, seed store.State) (*store.Store, *memSnapshots) {
	t.Helper()
	snaps := &memSnapshots{saved: map[string][]byte{}}
	regs := Registries{
		Reducers:    store.NewReducerRegistry(),
		Middleware:  store.NewMiddlewareRegistry(),
		Listeners:   store.NewListenerRegistry(),
		Persistence: persist.NewRegistry(snaps, nil),
	}
	m.Register(regs)
	s := store.New(regs.Reducers.Combine(), seed, regs.Middleware.Apply(store.Thunk()))
	regs.Listeners.Subscribe(s)
	return s, snaps
}

func TestNavigateToConference(t *testing.T) {
	m := &Module{}
	s, snaps := newStore(t, m, nil)
	app := &fakeApp{id: "a1"}
	actions := m.Actions()
	s.Dispatch(actions.WillMount(app))

	s.Dispatch(actions.Navigate("https://example.com/team/room1"))

	ref, ok := app.last(t).ComponentRef()
	require.True(t, ok)
	assert.Equal(t, PageConference, ref.Name)
	assert.Equal(t, map[string]string{"server": "example.com", "room": "room1", "tenant": "team"}, ref.Params)
	assert.Equal(t, "https://example.com/team/room1", LocationURL(s.GetState()))
	assert.Equal(t, "https://example.com", ServerURL(s.GetState()))
	assert.JSONEq(t, `{"serverURL":"https://example.com"}`, string(snaps.saved[SettingsKey]))
}

func TestNavigateBareRoomUsesPersistedServer(t *testing.T) {
	m := &Module{}
	s, _ := newStore(t, m, store.State{SettingsKey: Settings{ServerURL: "https://persisted.example"}})
	app := &fakeApp{id: "a1"}
	s.Dispatch(AppWillMount{App: app})

	s.Dispatch(m.Navigate("lobby"))
	ref, _ := app.last(t).ComponentRef()
	assert.Equal(t, "lobby", ref.Params["room"])
	assert.Equal(t, "persisted.example", ref.Params["server"])
	assert.Equal(t, "https://persisted.example/lobby", LocationURL(s.GetState()))
}

func TestNavigateWithoutHostKeepsServerSetting(t *testing.T) {
	m := &Module{}
	s, snaps := newStore(t, m, store.State{SettingsKey: Settings{ServerURL: "https://persisted.example"}})
	app := &fakeApp{id: "a1"}
	s.Dispatch(AppWillMount{App: app})

	s.Dispatch(m.Navigate("https:"))

	assert.Equal(t, "https://persisted.example", ServerURL(s.GetState()))
	assert.JSONEq(t, `{"serverURL":"https://persisted.example"}`, string(snaps.saved[SettingsKey]))
	assert.Equal(t, route.KindComponent, app.last(t).Kind())
}

func TestNavigateBareRoomFallsBack(t *testing.T) {
	m := &Module{}
	s, _ := newStore(t, m, nil)
	app := &fakeApp{id: "a1"}
	s.Dispatch(AppWillMount{App: app})

	s.Dispatch(m.Navigate("lobby"))
	assert.Equal(t, urlresolve.FallbackURL+"/lobby", LocationURL(s.GetState()))
}

func TestNavigateRedirects(t *testing.T) {
	m := &Module{ServerDomain: "meet.example.com"}
	s, _ := newStore(t, m, nil)
	app := &fakeApp{id: "a1"}
	s.Dispatch(AppWillMount{App: app})

	s.Dispatch(m.Navigate("mailto:someone@example.com"))
	href, ok := app.last(t).Href()
	require.True(t, ok)
	assert.Equal(t, "mailto:someone@example.com", href)

	s.Dispatch(m.Navigate("https://elsewhere.example/room"))
	href, ok = app.last(t).Href()
	require.True(t, ok)
	assert.Equal(t, "https://elsewhere.example/room", href)
	assert.Empty(t, LocationURL(s.GetState()))

	s.Dispatch(m.Navigate("https://MEET.example.com/room"))
	assert.Equal(t, route.KindComponent, app.last(t).Kind())
}

func TestNavigateWithoutMountedApp(t *testing.T) {
	m := &Module{}
	s, _ := newStore(t, m, nil)
	assert.Nil(t, s.Dispatch(m.Navigate("https://example.com/a")))
	assert.Empty(t, LocationURL(s.GetState()))
}

func TestUnmountClearsOnlyMatchingApp(t *testing.T) {
	m := &Module{}
	s, _ := newStore(t, m, nil)
	a1 := &fakeApp{id: "a1"}
	s.Dispatch(AppWillMount{App: a1})

	s.Dispatch(AppWillUnmount{App: &fakeApp{id: "other"}})
	app, _ := store.Select[AppState](s.GetState(), AppKey)
	require.NotNil(t, app.App)

	s.Dispatch(AppWillUnmount{App: a1})
	app, _ = store.Select[AppState](s.GetState(), AppKey)
	require.Nil(t, app.App)
}

func TestPageFor(t *testing.T) {
	cases := []struct {
		raw  string
		want route.ComponentRef
	}{
		{"https://m.example", route.ComponentRef{Name: PageWelcome, Params: map[string]string{"server": "m.example"}}},
		{"https://m.example/", route.ComponentRef{Name: PageWelcome, Params: map[string]string{"server": "m.example"}}},
		{"https://m.example/settings", route.ComponentRef{Name: PageSettings, Params: map[string]string{"server": "m.example"}}},
		{"https://m.example/Setings", route.ComponentRef{Name: PageSettings, Params: map[string]string{"server": "m.example"}}},
		{"https://m.example/team/settings", route.ComponentRef{Name: PageConference, Params: map[string]string{"server": "m.example", "room": "settings", "tenant": "team"}}},
		{"https://m.example/standup", route.ComponentRef{Name: PageConference, Params: map[string]string{"server": "m.example", "room": "standup"}}},
	}
	for _, tc := range cases {
		u, err := url.Parse(tc.raw)
		require.NoError(t, err)
		got := PageFor(u)
		assert.True(t, got.Equal(tc.want), "%s: got %+v", tc.raw, got)
	}
}
