// Package store contains the central state container and the registries
// that let features contribute reducers, middleware and state listeners
// without knowing about each other.
//
// Allowed here:
// - the container itself (dispatch, state, subscriptions)
// - reducer combination, middleware composition, the thunk middleware
// - registries and the container locator
//
// Not allowed here:
// - feature actions and reducers
// - anything that knows about the host UI
package store
