package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrNoContainer reports a lifecycle call that needs the container
	// before activation created it.
	ErrNoContainer = errors.New("state container not created")
	// ErrContainerExists reports a second container creation.
	ErrContainerExists = errors.New("state container already created")
)

// PreconditionError is a host integration bug: an operation was invoked
// in a state where it cannot run.
type PreconditionError struct {
	Op  string
	Err error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("lifecycle %s: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() error { return e.Err }
