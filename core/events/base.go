package events

import "time"

// Kind names one event type in this package's closed namespace; doc.go
// lists the full set.
type Kind string

// Event is implemented by every update event flowing toward the
// presentation sink.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the fields every event shares. Embed it and build it with
// NewBase so the timestamp is stamped when the event is created, not when
// it is observed.
type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind { return b.kind }

func (b Base) Timestamp() time.Time { return b.timestamp }
