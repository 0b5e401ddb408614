// Package feed is the live-patch channel: a single websocket connection
// delivering out-of-band updates tagged by kind.
//
// Messages are JSON {type, data}. Payloads that fail to parse are delivered
// raw rather than dropped, matching the backend's habit of sending the
// occasional plain-text notice. One connection attempt is made; there is no
// reconnect policy.
package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/palanikalyan/K-MATO/internal/kmerr"
	"github.com/palanikalyan/K-MATO/pkg/metrics"
)

// Recognized message tags.
const (
	TypeOrderUpdate    = "ORDER_UPDATE"
	TypeDeliveryUpdate = "DELIVERY_UPDATE"
)

// Message is one delivery from the channel. Either Data (parsed JSON
// payload) or Raw (unparseable payload, verbatim) is set.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
	Raw  []byte          `json:"-"`
}

// subscriberBuffer is the per-subscriber queue depth. A subscriber that
// falls this far behind loses messages rather than stalling the read loop.
const subscriberBuffer = 16

// Channel is a live-patch connection with fan-out to any number of
// subscribers.
type Channel struct {
	url     string
	dialer  *websocket.Dialer
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	conn    *websocket.Conn
	subs    map[uint64]chan Message
	nextSub uint64
	closed  bool

	// done is closed when the read loop exits.
	done chan struct{}
}

// Option configures the Channel.
type Option func(*Channel)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Channel) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Channel) {
		c.metrics = m
	}
}

// WithDialer sets the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Channel) {
		c.dialer = d
	}
}

// New creates a channel for the live-patch endpoint at url
// (e.g. "wss://api.kmato.example/ws/orders").
func New(url string, opts ...Option) *Channel {
	c := &Channel{
		url:    url,
		dialer: websocket.DefaultDialer,
		logger: slog.Default(),
		subs:   make(map[uint64]chan Message),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "feed")
	return c
}

// Connect dials the channel and starts the read loop. A failed dial is
// returned to the caller; no retry is made.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return kmerr.New("KM3002")
	}
	if c.conn != nil {
		return nil
	}

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return kmerr.FromError(err, "KM3001")
	}
	c.conn = conn
	c.logger.Info("live-patch channel connected", "url", c.url)

	go c.readLoop(conn)
	return nil
}

// Subscribe registers a consumer. The returned channel receives every
// message read after this call; cancel detaches it, closes the channel,
// and guarantees no further delivery.
func (c *Channel) Subscribe() (<-chan Message, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSub++
	id := c.nextSub
	ch := make(chan Message, subscriberBuffer)

	if c.closed {
		close(ch)
		return ch, func() {}
	}
	c.subs[id] = ch

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// Close tears down the connection and every subscriber channel. It is safe
// to call more than once and before Connect.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	for id, sub := range c.subs {
		delete(c.subs, id)
		close(sub)
	}
	c.mu.Unlock()

	if conn != nil {
		err := conn.Close()
		<-c.done
		return err
	}
	close(c.done)
	return nil
}

// readLoop reads until the connection drops, parsing each payload and
// fanning it out.
func (c *Channel) readLoop(conn *websocket.Conn) {
	defer close(c.done)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.logger.Error("read error", "error", err)
			}
			// Release the descriptor; a failed read does not close the
			// underlying connection on its own.
			conn.Close()
			c.detach()
			return
		}

		c.publish(c.parse(payload))
	}
}

// parse decodes a payload into a Message, falling back to raw delivery.
func (c *Channel) parse(payload []byte) Message {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		c.metrics.RecordParseFallback()
		c.logger.Debug("delivering unparseable payload raw", "bytes", len(payload))
		raw := make([]byte, len(payload))
		copy(raw, payload)
		return Message{Raw: raw}
	}
	return msg
}

// publish fans a message out to all subscribers. A subscriber whose buffer
// is full loses the message; the read loop never blocks on a consumer.
func (c *Channel) publish(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.metrics.RecordFeedMessage(msg.Type)

	for _, sub := range c.subs {
		select {
		case sub <- msg:
		default:
			c.logger.Warn("dropping message for slow subscriber", "type", msg.Type)
		}
	}
}

// detach marks the channel closed after the connection drops, closing all
// subscriber channels so consumers observe end-of-stream.
func (c *Channel) detach() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.conn = nil
	for id, sub := range c.subs {
		delete(c.subs, id)
		close(sub)
	}
	c.logger.Info("live-patch channel disconnected")
}
