package web

import (
	"testing"
	"time"
)

// waitForCount polls ClientCount until it returns want or the deadline
// passes. The polling itself takes the read lock concurrently with the
// hub loop.
func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ClientCount() = %d, want %d", h.ClientCount(), want)
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.register <- c
	waitForCount(t, h, 1)

	h.unregister <- c
	waitForCount(t, h, 0)

	// Unregistering twice must not close the channel again.
	h.unregister <- c
	waitForCount(t, h, 0)
}

func TestHub_DropsStalledClient(t *testing.T) {
	h := NewHub()
	go h.Run()

	// Unbuffered send channel with no reader: the first broadcast
	// cannot be delivered and the hub must evict the client.
	stalled := &Client{hub: h, send: make(chan []byte)}
	h.register <- stalled
	waitForCount(t, h, 1)

	h.Broadcast(map[string]string{"inline": "[C]hello"})
	waitForCount(t, h, 0)

	// The send channel was closed on eviction.
	select {
	case _, ok := <-stalled.send:
		if ok {
			t.Error("expected closed send channel, got a message")
		}
	case <-time.After(time.Second):
		t.Error("send channel was not closed")
	}
}

func TestHub_BroadcastReachesHealthyClients(t *testing.T) {
	h := NewHub()
	go h.Run()

	a := &Client{hub: h, send: make(chan []byte, 4)}
	b := &Client{hub: h, send: make(chan []byte, 4)}
	h.register <- a
	h.register <- b
	waitForCount(t, h, 2)

	h.Broadcast(map[string]int{"diagrams": 3})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			if string(msg) != `{"diagrams":3}` {
				t.Errorf("message = %s, want {\"diagrams\":3}", msg)
			}
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
	waitForCount(t, h, 2)
}
