package features

import (
	"net/url"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/appshell/internal/route"
)

// Page names understood by the host views.
const (
	PageWelcome    = "welcome"
	PageConference = "conference"
	PageSettings   = "settings"
)

// reservedPages are path names that never become room names. A path one
// edit away from a reserved name still opens it.
var reservedPages = []string{PageSettings}

// PageFor maps an absolute app URL to the view that presents it.
func PageFor(u *url.URL) route.ComponentRef {
	segments := pathSegments(u.Path)
	if len(segments) == 0 {
		return route.ComponentRef{Name: PageWelcome, Params: map[string]string{"server": u.Host}}
	}
	room := segments[len(segments)-1]
	if page, ok := reservedPage(room); ok && len(segments) == 1 {
		return route.ComponentRef{Name: page, Params: map[string]string{"server": u.Host}}
	}
	params := map[string]string{"server": u.Host, "room": room}
	if len(segments) > 1 {
		params["tenant"] = strings.Join(segments[:len(segments)-1], "/")
	}
	return route.ComponentRef{Name: PageConference, Params: params}
}

func pathSegments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func reservedPage(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, page := range reservedPages {
		if levenshtein.ComputeDistance(name, page) <= 1 {
			return page, true
		}
	}
	return "", false
}
