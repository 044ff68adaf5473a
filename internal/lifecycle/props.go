package lifecycle

import (
	"maps"
	"reflect"
)

// Props are the host-supplied inputs of one render pass.
type Props struct {
	// URL is nil, a string, or a urlresolve.Descriptor.
	URL any
	// DefaultURL is used when URL resolves to nothing.
	DefaultURL string
	// Timestamp forces re-navigation when it changes, even if URL does not.
	Timestamp any
	// Extra is forwarded untouched to the active view.
	Extra map[string]any
}

// PassThrough returns the fields forwarded to the active view.
func (p Props) PassThrough() map[string]any {
	return maps.Clone(p.Extra)
}

func sameTimestamp(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
