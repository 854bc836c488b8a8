package event

import (
	"time"
)

// DocumentChanged is emitted by the change feed each time a document is written.
type DocumentChanged struct {
	Collection string
	ID         string
	Version    uint64
	At         time.Time
}
