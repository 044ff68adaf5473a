package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jask/appshell/internal/lifecycle"
	"github.com/jask/appshell/internal/route"
	"github.com/jask/appshell/internal/store"
)

// Controller is the lifecycle surface the shell drives.
type Controller interface {
	Activate() <-chan struct{}
	SetProps(next lifecycle.Props) <-chan struct{}
	Deactivate() error
	Render() lifecycle.RenderState
	Props() lifecycle.Props
}

// Options wires a Model.
type Options struct {
	Controller Controller
	Events     *Events
	// Locator exposes the container for the footer.
	Locator *store.Locator
	// ServerURL reads the configured server from container state.
	ServerURL func(store.State) string
	Views     map[string]View
	Log       logrus.FieldLogger
	// Now stamps reloads. Defaults to time.Now.
	Now func() time.Time
}

// Model is the bubbletea host of one Controller.
type Model struct {
	ctrl      Controller
	events    *Events
	locator   *store.Locator
	serverURL func(store.State) string
	views     map[string]View
	log       logrus.FieldLogger
	now       func() time.Time

	render   lifecycle.RenderState
	input    string
	status   string
	statusOK bool
	width    int
	quitting bool
}

// New returns a model for opts.Controller.
func New(opts Options) Model {
	m := Model{
		ctrl:      opts.Controller,
		events:    opts.Events,
		locator:   opts.Locator,
		serverURL: opts.ServerURL,
		views:     opts.Views,
		log:       opts.Log,
		now:       opts.Now,
	}
	if m.events == nil {
		m.events = NewEvents()
	}
	if m.views == nil {
		m.views = DefaultViews()
	}
	if m.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		m.log = l
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

func (m Model) Init() tea.Cmd {
	done := m.ctrl.Activate()
	return tea.Batch(
		func() tea.Msg {
			<-done
			return activatedMsg{}
		},
		m.events.waitChanged(),
		m.events.waitRedirect(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case changedMsg:
		m.render = m.ctrl.Render()
		return m, m.events.waitChanged()
	case activatedMsg:
		m.render = m.ctrl.Render()
		return m, nil
	case redirectMsg:
		if msg.err != nil {
			m.setStatus("could not open "+msg.href+": "+msg.err.Error(), false)
		} else {
			m.setStatus("opened "+msg.href+" outside the app", true)
		}
		return m, m.events.waitRedirect()
	case PropsMsg:
		m.ctrl.SetProps(msg.Props)
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		if err := m.ctrl.Deactivate(); err != nil {
			m.log.WithError(err).Warn("deactivate")
		}
		m.quitting = true
		return m, tea.Quit
	case "enter":
		target := strings.TrimSpace(m.input)
		if target == "" {
			return m, nil
		}
		m.open(target)
		m.input = ""
		m.setStatus("opening "+target, true)
		return m, nil
	case "ctrl+r":
		p := m.ctrl.Props()
		p.Timestamp = m.now().UnixNano()
		m.ctrl.SetProps(p)
		m.setStatus("reloading", true)
		return m, nil
	case "ctrl+u":
		m.input = ""
		return m, nil
	case "backspace":
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
		return m, nil
	}
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		m.input += string(msg.Runes)
	}
	return m, nil
}

// open replaces the URL prop. The fresh timestamp makes re-entering the
// current URL navigate again.
func (m *Model) open(target string) {
	p := m.ctrl.Props()
	p.URL = target
	p.Timestamp = m.now().UnixNano()
	m.ctrl.SetProps(p)
}

func (m *Model) setStatus(s string, ok bool) {
	m.status = s
	m.statusOK = ok
}

func (m Model) View() string {
	if m.quitting || !m.render.Ready {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("appshell"))
	b.WriteString("\n\n")
	if body := m.body(); body != "" {
		box := boxStyle
		if m.width > 4 {
			box = box.Width(m.width - 2)
		}
		b.WriteString(box.Render(body))
		b.WriteString("\n")
	}
	b.WriteString(promptStyle.Render("> "))
	b.WriteString(textStyle.Render(m.input))
	b.WriteString("\n\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) body() string {
	if !m.render.Presentable() {
		return ""
	}
	ref, _ := m.render.Route.ComponentRef()
	view, ok := m.views[ref.Name]
	if !ok {
		return warnStyle.Render("no view for " + m.render.Route.String())
	}
	return view(ref, m.render.Props)
}

func (m Model) footer() string {
	server := "no server"
	if st, ok := m.locator.State(); ok && m.serverURL != nil {
		if u := m.serverURL(st); u != "" {
			server = u
		}
	}
	parts := []string{mutedStyle.Render("server: " + server)}
	if m.status != "" {
		style := okStyle
		if !m.statusOK {
			style = errStyle
		}
		parts = append(parts, style.Render(m.status))
	}
	parts = append(parts, mutedStyle.Render("enter open · ctrl+r reload · esc quit"))
	return strings.Join(parts, "  ")
}

var _ route.Redirector = Redirector{}
