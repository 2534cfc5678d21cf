// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"github.com/angelstreet/automai-sub009/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveBatchJSON does nothing.
func (s *Sink) SaveBatchJSON(tick int, data []byte) error {
	return nil
}

// SaveStateJSON does nothing.
func (s *Sink) SaveStateJSON(data []byte) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
