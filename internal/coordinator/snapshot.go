// internal/coordinator/snapshot.go
package coordinator

import (
	"time"

	"github.com/tamzrod/heliobridge/internal/codec"
)

// ConnState describes the health of the device link.
type ConnState uint8

const (
	// Disconnected means no successful poll cycle has completed yet.
	Disconnected ConnState = iota
	// Connected means the most recent poll cycle succeeded.
	Connected
	// Degraded means the last poll cycle failed but a previous good
	// snapshot is still being served.
	Degraded
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case Degraded:
		return "degraded"
	}
	return "unknown"
}

// Snapshot is the immutable published view of all decoded values as of
// the most recent successful poll cycle. Seq increases only when a
// cycle publishes fresh values; a Degraded snapshot keeps the previous
// Seq, timestamp, and values.
type Snapshot struct {
	Seq   uint64
	Taken time.Time
	State ConnState

	values map[string]codec.Value
}

// Value returns the decoded value for key, if present.
func (s *Snapshot) Value(key string) (codec.Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of values carried.
func (s *Snapshot) Len() int {
	return len(s.values)
}

// withState returns a copy sharing the same values with a new state.
// The values map is never mutated after publication, so sharing is safe.
func (s *Snapshot) withState(state ConnState) *Snapshot {
	return &Snapshot{
		Seq:    s.Seq,
		Taken:  s.Taken,
		State:  state,
		values: s.values,
	}
}
