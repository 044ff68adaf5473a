// Package lifecycle sequences application startup and navigation.
//
// A Controller is driven by a host adapter through four entry points:
// Activate, OnPropsChanged (or SetProps), Deactivate and Render. All
// transitions run on the controller's own serial queue, so the host may
// call in from any goroutine.
//
// Activation waits for storage readiness, builds the state container
// exactly once, announces the mount, flips Ready and opens the initial
// URL. Props changes arriving earlier are parked and replayed in order
// right after activation.
package lifecycle
