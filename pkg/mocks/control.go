package mocks

import (
	"context"
	"sync"

	"github.com/angelstreet/automai-sub009/pkg/ports"
)

// ControlSignal is a mock implementation of ports.ControlSignal backed
// by a settable flag and a broadcast channel.
type ControlSignal struct {
	mu     sync.Mutex
	active bool
	subs   []chan bool
}

// NewControlSignal creates a mock control signal in the given state.
func NewControlSignal(active bool) *ControlSignal {
	return &ControlSignal{active: active}
}

// Set changes the signal state and notifies watchers.
func (m *ControlSignal) Set(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == active {
		return
	}
	m.active = active
	for _, ch := range m.subs {
		select {
		case ch <- active:
		default:
		}
	}
}

func (m *ControlSignal) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *ControlSignal) Watch(ctx context.Context) <-chan bool {
	ch := make(chan bool, 4)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// Ensure ControlSignal implements ports.ControlSignal
var _ ports.ControlSignal = (*ControlSignal)(nil)
