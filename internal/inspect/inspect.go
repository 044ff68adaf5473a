// Package inspect is the development inspection hook for the state
// container. It only observes.
package inspect

import (
	"reflect"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/jask/appshell/internal/store"
)

// Logger logs every reduced action with the state keys it changed.
type Logger struct {
	Log logrus.FieldLogger
}

func (l Logger) Inspect(action store.Action, prev, next store.State) {
	if l.Log == nil {
		return
	}
	l.Log.WithFields(logrus.Fields{
		"action":  store.TypeOf(action),
		"changed": ChangedKeys(prev, next),
	}).Debug("dispatch")
}

// ChangedKeys lists the keys whose values differ between prev and next,
// sorted.
func ChangedKeys(prev, next store.State) []string {
	var keys []string
	for k, v := range next {
		if old, ok := prev[k]; !ok || !reflect.DeepEqual(old, v) {
			keys = append(keys, k)
		}
	}
	for k := range prev {
		if _, ok := next[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}
