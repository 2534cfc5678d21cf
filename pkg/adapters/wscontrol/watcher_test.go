package wscontrol

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/angelstreet/automai-sub009/pkg/adapters/logger"
)

// controlServer is a fake device-control service. It sends an initial
// status message on connect and relays further messages from the
// updates channel.
func controlServer(t *testing.T, initial bool, updates <-chan statusMessage) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if err := conn.WriteJSON(statusMessage{Type: "control", Active: initial}); err != nil {
			return
		}
		for msg := range updates {
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestDial_InitialState(t *testing.T) {
	updates := make(chan statusMessage)
	server := controlServer(t, true, updates)
	defer server.Close()
	defer close(updates)

	w, err := Dial(context.Background(), wsURL(server), logger.NewNoop())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer w.Close()

	if !w.Active() {
		t.Error("expected control to be active after dial")
	}
}

func TestDial_Unreachable(t *testing.T) {
	if _, err := Dial(context.Background(), "ws://127.0.0.1:1/control", logger.NewNoop()); err == nil {
		t.Error("expected error dialing unreachable service")
	}
}

func TestWatcher_StateChanges(t *testing.T) {
	updates := make(chan statusMessage)
	server := controlServer(t, true, updates)
	defer server.Close()
	defer close(updates)

	w, err := Dial(context.Background(), wsURL(server), logger.NewNoop())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer w.Close()

	ch := w.Watch(context.Background())

	updates <- statusMessage{Type: "control", Active: false}
	select {
	case active := <-ch:
		if active {
			t.Error("expected deassert notification")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state change")
	}
	if w.Active() {
		t.Error("expected Active() to report false")
	}

	// Messages of other types are ignored.
	updates <- statusMessage{Type: "heartbeat", Active: true}
	updates <- statusMessage{Type: "control", Active: true}
	select {
	case active := <-ch:
		if !active {
			t.Error("expected assert notification")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state change")
	}
}

func TestWatcher_ConnectionLossDeasserts(t *testing.T) {
	updates := make(chan statusMessage)
	server := controlServer(t, true, updates)
	defer server.Close()

	w, err := Dial(context.Background(), wsURL(server), logger.NewNoop())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	ch := w.Watch(context.Background())

	// Server side hangs up.
	close(updates)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case active, ok := <-ch:
			if !ok {
				if w.Active() {
					t.Error("expected Active() to report false after connection loss")
				}
				return
			}
			if active {
				t.Error("unexpected assert after connection loss")
			}
		case <-deadline:
			t.Fatal("timed out waiting for channel close")
		}
	}
}

func TestWatcher_WatchCancel(t *testing.T) {
	updates := make(chan statusMessage)
	server := controlServer(t, true, updates)
	defer server.Close()
	defer close(updates)

	w, err := Dial(context.Background(), wsURL(server), logger.NewNoop())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := w.Watch(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
