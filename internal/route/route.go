// Package route holds the one-slot "current route" state machine.
package route

import (
	"fmt"
	"maps"
)

// Kind tags the Route variant.
type Kind int

const (
	KindNone Kind = iota
	KindComponent
	KindRedirect
)

func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "component"
	case KindRedirect:
		return "redirect"
	default:
		return "none"
	}
}

// ComponentRef names the view to present and its parameters.
type ComponentRef struct {
	Name   string
	Params map[string]string
}

// Equal compares refs structurally. A nil and an empty Params map are equal.
func (c ComponentRef) Equal(o ComponentRef) bool {
	return c.Name == o.Name && maps.Equal(c.Params, o.Params)
}

// Route is either empty, a component to render, or an external redirect.
// The zero value is the empty route.
type Route struct {
	component *ComponentRef
	redirect  bool
	href      string
}

// Component returns a route rendering ref.
func Component(ref ComponentRef) Route {
	ref.Params = maps.Clone(ref.Params)
	return Route{component: &ref}
}

// Redirect returns a route that leaves the app for href.
func Redirect(href string) Route {
	return Route{redirect: true, href: href}
}

func (r Route) Kind() Kind {
	switch {
	case r.component != nil:
		return KindComponent
	case r.redirect:
		return KindRedirect
	default:
		return KindNone
	}
}

// ComponentRef returns the component to render, if any.
func (r Route) ComponentRef() (ComponentRef, bool) {
	if r.component == nil {
		return ComponentRef{}, false
	}
	return *r.component, true
}

// Href returns the redirect target, if any.
func (r Route) Href() (string, bool) {
	return r.href, r.Kind() == KindRedirect
}

// Equal reports structural equality.
func (r Route) Equal(o Route) bool {
	if r.Kind() != o.Kind() {
		return false
	}
	switch r.Kind() {
	case KindComponent:
		return r.component.Equal(*o.component)
	case KindRedirect:
		return r.href == o.href
	default:
		return true
	}
}

func (r Route) String() string {
	switch r.Kind() {
	case KindComponent:
		return fmt.Sprintf("component(%s %v)", r.component.Name, r.component.Params)
	case KindRedirect:
		return fmt.Sprintf("redirect(%s)", r.href)
	default:
		return "none"
	}
}
