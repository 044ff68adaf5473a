package repository

import "time"

// Snapshot is the last saved value of one persisted state slice.
type Snapshot struct {
	Key       string
	Value     []byte
	Revision  string
	UpdatedAt time.Time
}
