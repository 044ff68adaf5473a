package storagegate

import "fmt"

// PanicError reports a readiness signal that panicked.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("storage signal panicked: %v", e.Value)
}
