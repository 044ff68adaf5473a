// Package urlresolve turns URL-like launch values into canonical strings
// and picks the URL to open when none is given.
package urlresolve

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/jask/appshell/internal/store"
)

// FallbackURL is opened when nothing else names a server.
const FallbackURL = "https://meet.example.org"

// Descriptor is the structured form of a launch URL. A non-empty URL
// wins over the other fields.
type Descriptor struct {
	URL       string
	ServerURL string
	Scheme    string
	Host      string
	Room      string
	JWT       string
	Config    map[string]string
}

// String renders the descriptor canonically. A descriptor naming only a
// room renders as the bare room name, which the navigate action resolves
// against the current server.
func (d Descriptor) String() string {
	if u := strings.TrimSpace(d.URL); u != "" {
		return u
	}
	base, ok := d.base()
	room := strings.TrimSpace(d.Room)
	if !ok {
		return url.PathEscape(room)
	}
	if room != "" {
		base.Path = strings.TrimSuffix(base.Path, "/") + "/" + room
	}
	if jwt := strings.TrimSpace(d.JWT); jwt != "" {
		q := base.Query()
		q.Set("jwt", jwt)
		base.RawQuery = q.Encode()
	}
	if frag := configFragment(d.Config); frag != "" {
		base.RawFragment = frag
		base.Fragment, _ = url.PathUnescape(frag)
	}
	return base.String()
}

func (d Descriptor) base() (*url.URL, bool) {
	if s := strings.TrimSpace(d.ServerURL); s != "" {
		u, err := url.Parse(s)
		if err == nil && u.Host != "" {
			return u, true
		}
	}
	host := strings.TrimSpace(d.Host)
	if host == "" {
		return nil, false
	}
	scheme := strings.TrimSuffix(strings.TrimSpace(d.Scheme), ":")
	if scheme == "" {
		scheme = "https"
	}
	return &url.URL{Scheme: scheme, Host: host}, true
}

func configFragment(cfg map[string]string) string {
	if len(cfg) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("config.%s=%s", k, url.QueryEscape(cfg[k])))
	}
	return strings.Join(parts, "&")
}

// Resolve normalizes an absent, string or Descriptor value. Unsupported
// values resolve to "".
func Resolve(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case Descriptor:
		return v.String()
	case *Descriptor:
		if v == nil {
			return ""
		}
		return v.String()
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
}

// ResolveDefault picks the URL to open when the launch value resolved to
// nothing. An environment that already has a location keeps it; then the
// explicit default, then the persisted server URL, then FallbackURL.
func ResolveDefault(explicit, persistedServerURL, location string) string {
	for _, candidate := range []string{location, explicit, persistedServerURL} {
		if c := strings.TrimSpace(candidate); c != "" {
			return c
		}
	}
	return FallbackURL
}

// Resolver binds ResolveDefault to the host's location hook and the
// container's persisted settings.
type Resolver struct {
	// Location reports the environment's own current location, if any.
	Location func() string
	// ServerURL reads the persisted server URL setting from state.
	ServerURL func(store.State) string
}

func (r Resolver) Resolve(raw any) string { return Resolve(raw) }

// Default computes the fallback URL against state.
func (r Resolver) Default(explicit string, state store.State) string {
	var location, server string
	if r.Location != nil {
		location = r.Location()
	}
	if r.ServerURL != nil && state != nil {
		server = r.ServerURL(state)
	}
	return ResolveDefault(explicit, server, location)
}

// Target resolves raw, falling back to Default when it is empty.
func (r Resolver) Target(raw any, explicit string, state store.State) string {
	if u := r.Resolve(raw); u != "" {
		return u
	}
	return r.Default(explicit, state)
}
