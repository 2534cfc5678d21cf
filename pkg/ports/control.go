package ports

import (
	"context"
)

// ControlSignal exposes the externally owned "device control" state.
// Monitoring may only run while an operator holds exclusive control of
// the device; the session consults Active at start and watches for the
// signal dropping while running.
type ControlSignal interface {
	// Active reports whether device control is currently held.
	Active() bool

	// Watch returns a channel that receives the control state whenever
	// it changes. The channel is closed when the underlying connection
	// is lost or ctx is cancelled; a closed channel must be treated as
	// control lost.
	Watch(ctx context.Context) <-chan bool
}
