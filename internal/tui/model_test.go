package tui

import (
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/appshell/internal/features"
	"github.com/jask/appshell/internal/lifecycle"
	"github.com/jask/appshell/internal/route"
	"github.com/jask/appshell/internal/store"
)

type fakeController struct {
	mu          sync.Mutex
	activated   int
	deactivated int
	props       lifecycle.Props
	history     []lifecycle.Props
	render      lifecycle.RenderState
}

func closed() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (f *fakeController) Activate() <-chan struct{} {
	f.mu.Lock()
	f.activated++
	f.mu.Unlock()
	return closed()
}

func (f *fakeController) SetProps(next lifecycle.Props) <-chan struct{} {
	f.mu.Lock()
	f.props = next
	f.history = append(f.history, next)
	f.mu.Unlock()
	return closed()
}

func (f *fakeController) Deactivate() error {
	f.mu.Lock()
	f.deactivated++
	f.mu.Unlock()
	return nil
}

func (f *fakeController) Render() lifecycle.RenderState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.render
}

func (f *fakeController) Props() lifecycle.Props {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.props
}

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestModel(ctrl *fakeController, loc *store.Locator) Model {
	return New(Options{
		Controller: ctrl,
		Locator:    loc,
		ServerURL:  features.ServerURL,
		Now:        func() time.Time { return fixedNow },
	})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func conferenceRender() lifecycle.RenderState {
	return lifecycle.RenderState{
		Ready: true,
		Route: route.Component(route.ComponentRef{
			Name:   features.PageConference,
			Params: map[string]string{"server": "meet.example.com", "room": "standup"},
		}),
		Props: map[string]any{"displayName": "Ada"},
	}
}

func TestInitActivates(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(ctrl, nil)
	require.NotNil(t, m.Init())
	assert.Equal(t, 1, ctrl.activated)
}

func TestViewEmptyUntilReady(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(ctrl, nil)
	assert.Empty(t, m.View())

	m, _ = update(t, m, activatedMsg{})
	assert.Empty(t, m.View())
}

func TestViewRendersRouteWithPassThroughProps(t *testing.T) {
	ctrl := &fakeController{render: conferenceRender()}
	m := newTestModel(ctrl, nil)

	m, cmd := update(t, m, changedMsg{})
	require.NotNil(t, cmd)

	view := m.View()
	assert.Contains(t, view, "Meeting standup")
	assert.Contains(t, view, "displayName")
	assert.Contains(t, view, "Ada")
	assert.Contains(t, view, "no server")
}

func TestViewReadyWithoutComponent(t *testing.T) {
	ctrl := &fakeController{render: lifecycle.RenderState{Ready: true}}
	m := newTestModel(ctrl, nil)
	m, _ = update(t, m, changedMsg{})

	view := m.View()
	assert.Contains(t, view, "appshell")
	assert.NotContains(t, view, "Meeting")
}

func TestFooterReadsServerThroughLocator(t *testing.T) {
	s := store.New(func(st store.State, _ store.Action) store.State { return st },
		store.State{features.SettingsKey: features.Settings{ServerURL: "https://meet.example.com"}})
	loc := &store.Locator{}
	loc.Bind(s)

	ctrl := &fakeController{render: conferenceRender()}
	m := newTestModel(ctrl, loc)
	m, _ = update(t, m, changedMsg{})
	assert.Contains(t, m.View(), "server: https://meet.example.com")
}

func TestEnterOpensTypedURLWithFreshTimestamp(t *testing.T) {
	ctrl := &fakeController{props: lifecycle.Props{
		URL:        "https://meet.example.com/old",
		DefaultURL: "https://meet.example.com",
		Extra:      map[string]any{"k": "v"},
	}}
	m := newTestModel(ctrl, nil)

	m = typeText(t, m, "standup")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = typeText(t, m, "p")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, ctrl.history, 1)
	got := ctrl.history[0]
	assert.Equal(t, "standup", got.URL)
	assert.Equal(t, fixedNow.UnixNano(), got.Timestamp)
	assert.Equal(t, "https://meet.example.com", got.DefaultURL)
	assert.Equal(t, map[string]any{"k": "v"}, got.Extra)
	assert.Empty(t, m.input)
}

func TestEnterWithEmptyInputDoesNothing(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(ctrl, nil)
	m = typeText(t, m, "   ")
	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, ctrl.history)
}

func TestReloadKeepsURLAndBumpsTimestamp(t *testing.T) {
	ctrl := &fakeController{props: lifecycle.Props{URL: "https://meet.example.com/a", Timestamp: 1}}
	m := newTestModel(ctrl, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

	require.Len(t, ctrl.history, 1)
	assert.Equal(t, "https://meet.example.com/a", ctrl.history[0].URL)
	assert.Equal(t, fixedNow.UnixNano(), ctrl.history[0].Timestamp)
	assert.Equal(t, "reloading", m.status)
}

func TestPropsMsgForwardsToController(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(ctrl, nil)
	_, _ = update(t, m, PropsMsg{Props: lifecycle.Props{URL: "x", Timestamp: 7}})

	require.Len(t, ctrl.history, 1)
	assert.Equal(t, 7, ctrl.history[0].Timestamp)
}

func TestQuitDeactivates(t *testing.T) {
	ctrl := &fakeController{render: conferenceRender()}
	m := newTestModel(ctrl, nil)
	m, _ = update(t, m, changedMsg{})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1, ctrl.deactivated)
	assert.Empty(t, m.View())
}

func TestRedirectorReportsToStatusLine(t *testing.T) {
	events := NewEvents()
	var opened []string
	r := Redirector{
		Open: func(href string) error {
			opened = append(opened, href)
			return nil
		},
		Events: events,
	}
	r.Redirect("mailto:team@example.com")
	assert.Equal(t, []string{"mailto:team@example.com"}, opened)

	ctrl := &fakeController{render: lifecycle.RenderState{Ready: true}}
	m := New(Options{Controller: ctrl, Events: events})
	msg := events.waitRedirect()()
	m, cmd := update(t, m, msg)
	require.NotNil(t, cmd)
	assert.Contains(t, m.status, "mailto:team@example.com")
	assert.True(t, m.statusOK)
}

func TestRedirectorReportsOpenFailure(t *testing.T) {
	events := NewEvents()
	Redirector{
		Open:   func(string) error { return errors.New("no opener") },
		Events: events,
	}.Redirect("https://elsewhere.example")

	m := New(Options{Controller: &fakeController{}, Events: events})
	m, _ = update(t, m, events.waitRedirect()())
	assert.False(t, m.statusOK)
	assert.Contains(t, m.status, "no opener")
}

func TestChangedCoalesces(t *testing.T) {
	events := NewEvents()
	events.Changed(lifecycle.RenderState{})
	events.Changed(lifecycle.RenderState{})
	events.Changed(lifecycle.RenderState{})

	assert.IsType(t, changedMsg{}, events.waitChanged()())
	assert.Empty(t, events.changed)
}
