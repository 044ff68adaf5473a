package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jask/appshell/internal/features"
	"github.com/jask/appshell/internal/route"
)

// View renders the component a route points at. extra carries the
// pass-through props untouched.
type View func(ref route.ComponentRef, extra map[string]any) string

// DefaultViews returns the views for the built-in pages.
func DefaultViews() map[string]View {
	return map[string]View{
		features.PageWelcome:    welcomeView,
		features.PageConference: conferenceView,
		features.PageSettings:   settingsView,
	}
}

func welcomeView(ref route.ComponentRef, extra map[string]any) string {
	var b strings.Builder
	b.WriteString(headStyle.Render("Welcome"))
	b.WriteString("\n")
	b.WriteString(textStyle.Render("Start or join a meeting on " + ref.Params["server"]))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Type a room name or a meeting link below."))
	if s := renderExtra(extra); s != "" {
		b.WriteString("\n\n")
		b.WriteString(s)
	}
	return b.String()
}

func conferenceView(ref route.ComponentRef, extra map[string]any) string {
	room := ref.Params["room"]
	if tenant := ref.Params["tenant"]; tenant != "" {
		room = tenant + "/" + room
	}
	var b strings.Builder
	b.WriteString(headStyle.Render("Meeting " + room))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("on " + ref.Params["server"]))
	if s := renderExtra(extra); s != "" {
		b.WriteString("\n\n")
		b.WriteString(s)
	}
	return b.String()
}

func settingsView(ref route.ComponentRef, extra map[string]any) string {
	var b strings.Builder
	b.WriteString(headStyle.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(textStyle.Render("Server: " + ref.Params["server"]))
	if s := renderExtra(extra); s != "" {
		b.WriteString("\n\n")
		b.WriteString(s)
	}
	return b.String()
}

func renderExtra(extra map[string]any) string {
	if len(extra) == 0 {
		return ""
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, mutedStyle.Render(k+": ")+textStyle.Render(fmt.Sprint(extra[k])))
	}
	return strings.Join(lines, "\n")
}
