package websocket

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"
)

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func testClient(h *Hub) *Client {
	return &Client{id: "test", hub: h, send: make(chan []byte, sendBufferSize)}
}

func TestRegisterUnregister(t *testing.T) {
	h := testHub()
	c := testClient(h)

	h.Register(c)
	if h.ClientCount() != 1 {
		t.Errorf("count = %d, want 1", h.ClientCount())
	}

	h.Unregister(c)
	if h.ClientCount() != 0 {
		t.Errorf("count = %d, want 0", h.ClientCount())
	}
	if _, ok := <-c.send; ok {
		t.Error("send channel not closed on unregister")
	}
}

func TestBroadcastReachesClients(t *testing.T) {
	h := testHub()
	a := testClient(h)
	b := testClient(h)
	h.Register(a)
	h.Register(b)

	h.Broadcast(NewMessage("chore", "created", "42"))

	for _, c := range []*Client{a, b} {
		select {
		case data := <-c.send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("decode broadcast: %v", err)
			}
			if msg.Type != "chore_created" || msg.ID != "42" {
				t.Errorf("message = %+v", msg)
			}
		default:
			t.Error("client did not receive broadcast")
		}
	}
}

func TestBroadcastSkipsFullBuffers(t *testing.T) {
	h := testHub()
	c := &Client{id: "full", hub: h, send: make(chan []byte)}
	h.Register(c)

	// Unbuffered channel with no reader: the broadcast must not block.
	done := make(chan struct{})
	go func() {
		h.Broadcast(NewMessage("expense", "approved", "1"))
		close(done)
	}()
	<-done
}
