// Package wscontrol watches the device-control service over a WebSocket
// and exposes its control-active signal as a port.
package wscontrol

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/angelstreet/automai-sub009/pkg/ports"
)

const (
	readWait   = 60 * time.Second
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// statusMessage is the control service's state notification.
type statusMessage struct {
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

// Watcher holds a WebSocket connection to the device-control service
// and tracks the control-active signal. A lost connection deasserts the
// signal: without a live control socket the operator cannot be assumed
// to hold the device.
type Watcher struct {
	conn *websocket.Conn
	log  ports.Logger

	mu     sync.Mutex
	active bool
	subs   map[chan bool]struct{}
	closed bool

	done chan struct{}
}

// Dial connects to the control service and starts watching its state
// notifications. The first status message is awaited so Active reflects
// the real state immediately after Dial returns.
func Dial(ctx context.Context, url string, log ports.Logger) (*Watcher, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial control service: %w", err)
	}

	w := &Watcher{
		conn: conn,
		log:  log.WithComponent("control"),
		subs: make(map[chan bool]struct{}),
		done: make(chan struct{}),
	}

	conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readWait))
		return nil
	})

	var first statusMessage
	if err := conn.ReadJSON(&first); err != nil {
		conn.Close()
		return nil, fmt.Errorf("read control status: %w", err)
	}
	w.active = first.Active
	w.log.Debug("Control signal initial state: %v", w.active)

	go w.readPump()
	go w.pingPump()
	return w, nil
}

// Active implements ports.ControlSignal.
func (w *Watcher) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Watch implements ports.ControlSignal. The returned channel receives
// every state change and is closed when the connection drops or ctx is
// cancelled.
func (w *Watcher) Watch(ctx context.Context) <-chan bool {
	ch := make(chan bool, 4)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		close(ch)
		return ch
	}
	w.subs[ch] = struct{}{}
	w.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			w.unsubscribe(ch)
		case <-w.done:
		}
	}()

	return ch
}

// Close shuts the connection down. Subscribers see a closed channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()
	return w.conn.Close()
}

func (w *Watcher) readPump() {
	defer w.teardown()

	for {
		var msg statusMessage
		if err := w.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.log.Warn("Control connection lost: %s", err)
			}
			return
		}
		if msg.Type != "control" {
			continue
		}
		w.broadcast(msg.Active)
	}
}

func (w *Watcher) pingPump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (w *Watcher) broadcast(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if active == w.active {
		return
	}
	w.active = active
	w.log.Debug("Control signal changed: %v", active)
	for ch := range w.subs {
		select {
		case ch <- active:
		default:
			// Subscriber is not draining; drop rather than block the
			// read pump.
		}
	}
}

// teardown deasserts the signal and closes all subscriber channels.
func (w *Watcher) teardown() {
	w.conn.Close()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.active = false
	close(w.done)
	for ch := range w.subs {
		select {
		case ch <- false:
		default:
		}
		close(ch)
	}
	w.subs = nil
}

func (w *Watcher) unsubscribe(ch chan bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if _, ok := w.subs[ch]; ok {
		delete(w.subs, ch)
		close(ch)
	}
}

// Ensure Watcher implements ports.ControlSignal.
var _ ports.ControlSignal = (*Watcher)(nil)
