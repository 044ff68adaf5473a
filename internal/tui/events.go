package tui

import (
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jask/appshell/internal/lifecycle"
)

type changedMsg struct{}

type redirectMsg struct {
	href string
	err  error
}

type activatedMsg struct{}

// PropsMsg replaces the controller props from outside the program, e.g.
// a props file watcher calling Program.Send.
type PropsMsg struct {
	Props lifecycle.Props
}

// Events carries controller notifications into the program. Sends never
// block: change notifications coalesce, and redirects beyond the buffer
// are dropped.
type Events struct {
	changed   chan struct{}
	redirects chan redirectMsg
}

// NewEvents returns an empty event hub.
func NewEvents() *Events {
	return &Events{
		changed:   make(chan struct{}, 1),
		redirects: make(chan redirectMsg, 16),
	}
}

// Changed is a lifecycle.Config.OnChange callback.
func (e *Events) Changed(lifecycle.RenderState) {
	select {
	case e.changed <- struct{}{}:
	default:
	}
}

func (e *Events) redirected(href string, err error) {
	select {
	case e.redirects <- redirectMsg{href: href, err: err}:
	default:
	}
}

func (e *Events) waitChanged() tea.Cmd {
	return func() tea.Msg {
		<-e.changed
		return changedMsg{}
	}
}

func (e *Events) waitRedirect() tea.Cmd {
	return func() tea.Msg {
		return <-e.redirects
	}
}

// Redirector hands out-of-app links to an opener and reports them to the
// program's status line.
type Redirector struct {
	Open   func(href string) error
	Events *Events
	Log    logrus.FieldLogger
}

// Redirect implements route.Redirector.
func (r Redirector) Redirect(href string) {
	open := r.Open
	if open == nil {
		open = SystemOpen
	}
	err := open(href)
	if err != nil && r.Log != nil {
		r.Log.WithError(err).WithField("href", href).Warn("open external link")
	}
	if r.Events != nil {
		r.Events.redirected(href, err)
	}
}

// SystemOpen opens href with the desktop's default handler.
func SystemOpen(href string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", href)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", href)
	default:
		cmd = exec.Command("xdg-open", href)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
