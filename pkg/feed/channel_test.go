package feed

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// startServer runs a websocket endpoint that writes each payload from send
// to the first client that connects.
func startServer(t *testing.T, send <-chan []byte) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for payload := range send {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func recv(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed before message arrived")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestChannelDeliversParsedMessages(t *testing.T) {
	send := make(chan []byte, 1)
	c := New(startServer(t, send))
	defer c.Close()

	msgs, cancel := c.Subscribe()
	defer cancel()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	send <- []byte(`{"type":"ORDER_UPDATE","data":{"id":7,"status":"CONFIRMED"}}`)

	msg := recv(t, msgs)
	if msg.Type != TypeOrderUpdate {
		t.Errorf("type: got %q, want ORDER_UPDATE", msg.Type)
	}
	if string(msg.Data) != `{"id":7,"status":"CONFIRMED"}` {
		t.Errorf("data: got %q", msg.Data)
	}
	if msg.Raw != nil {
		t.Error("parsed message must not carry Raw")
	}
}

func TestChannelFallsBackToRawDelivery(t *testing.T) {
	send := make(chan []byte, 1)
	c := New(startServer(t, send))
	defer c.Close()

	msgs, cancel := c.Subscribe()
	defer cancel()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	send <- []byte("server restarting soon")

	msg := recv(t, msgs)
	if msg.Type != "" || msg.Data != nil {
		t.Errorf("raw fallback must not fake a parsed message: %+v", msg)
	}
	if string(msg.Raw) != "server restarting soon" {
		t.Errorf("raw payload not delivered verbatim: %q", msg.Raw)
	}
}

func TestSubscriberDetachesCleanly(t *testing.T) {
	send := make(chan []byte, 2)
	c := New(startServer(t, send))
	defer c.Close()

	msgs, cancel := c.Subscribe()
	keep, cancelKeep := c.Subscribe()
	defer cancelKeep()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	send <- []byte(`{"type":"ORDER_UPDATE","data":{}}`)
	recv(t, msgs)
	recv(t, keep)

	cancel()

	// The detached subscriber's channel is closed; the other keeps receiving.
	if _, ok := <-msgs; ok {
		t.Error("detached subscriber received a value after cancel")
	}

	send <- []byte(`{"type":"DELIVERY_UPDATE","data":{}}`)
	if msg := recv(t, keep); msg.Type != TypeDeliveryUpdate {
		t.Errorf("remaining subscriber missed a message: %+v", msg)
	}
}

func TestServerDisconnectClosesConnection(t *testing.T) {
	send := make(chan []byte)
	c := New(startServer(t, send))
	defer c.Close()

	var netConn net.Conn
	c.dialer = &websocket.Dialer{
		NetDial: func(network, addr string) (net.Conn, error) {
			conn, err := net.Dial(network, addr)
			netConn = conn
			return conn, err
		},
	}

	msgs, cancel := c.Subscribe()
	defer cancel()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	// Server hangs up; the read loop must release the underlying
	// connection, not just abandon it.
	close(send)

	if _, ok := <-msgs; ok {
		t.Fatal("expected end-of-stream after server disconnect")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := netConn.SetReadDeadline(time.Now()); err != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("underlying connection still open after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestConnectFailureIsSingleAttempt(t *testing.T) {
	c := New("ws://127.0.0.1:1/ws")
	defer c.Close()

	err := c.Connect(context.Background())
	if err == nil {
		t.Fatal("expected dial failure")
	}
	// A second Connect after Close must refuse immediately.
	c.Close()
	if err := c.Connect(context.Background()); err == nil {
		t.Error("Connect after Close must fail")
	}
}

func TestCloseClosesSubscribers(t *testing.T) {
	send := make(chan []byte)
	c := New(startServer(t, send))

	msgs, cancel := c.Subscribe()
	defer cancel()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case _, ok := <-msgs:
		if ok {
			t.Error("expected closed channel after Close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber channel not closed by Close")
	}

	// Idempotent.
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
