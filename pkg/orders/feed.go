// Package orders tracks the customer's orders: a snapshot fetched at screen
// entry plus live patches folded in as they arrive, and the checkout flow
// that turns the cart into a new order.
package orders

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/palanikalyan/K-MATO/pkg/feed"
	"github.com/palanikalyan/K-MATO/pkg/metrics"
	"github.com/palanikalyan/K-MATO/pkg/model"
)

// OrdersAPI is the slice of the remote API the feed needs.
type OrdersAPI interface {
	CustomerOrders(ctx context.Context) ([]model.Order, error)
	CancelOrder(ctx context.Context, id int64) error
}

// Feed is the merged view of the customer's orders. It never removes orders
// on its own: membership changes only through Refresh or Cancel.
type Feed struct {
	api     OrdersAPI
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu     sync.RWMutex
	orders []model.Order
}

// Option configures the Feed.
type Option func(*Feed)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Feed) {
		f.logger = logger
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Feed) {
		f.metrics = m
	}
}

// NewFeed creates an order feed over the given API.
func NewFeed(api OrdersAPI, opts ...Option) *Feed {
	f := &Feed{
		api:    api,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("component", "orders")
	return f
}

// Refresh replaces the order list with a fresh snapshot.
func (f *Feed) Refresh(ctx context.Context) error {
	orders, err := f.api.CustomerOrders(ctx)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.orders = orders
	f.mu.Unlock()
	return nil
}

// Cancel cancels an order and re-fetches the snapshot, the only two paths
// that may change the order set's membership.
func (f *Feed) Cancel(ctx context.Context, id int64) error {
	if err := f.api.CancelOrder(ctx, id); err != nil {
		return err
	}
	return f.Refresh(ctx)
}

// Run folds messages from the live-patch channel into the feed until the
// channel closes or ctx is done.
func (f *Feed) Run(ctx context.Context, msgs <-chan feed.Message) {
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			f.Apply(msg)
		case <-ctx.Done():
			return
		}
	}
}

// Apply folds one live message into the order list. Unrecognized tags and
// patches that match no order are ignored without error.
func (f *Feed) Apply(msg feed.Message) {
	switch msg.Type {
	case feed.TypeOrderUpdate:
		f.applyOrderPatch(msg.Data)
	case feed.TypeDeliveryUpdate:
		f.applyDeliveryPatch(msg.Data)
	default:
		f.metrics.RecordPatchDropped("unknown_type")
	}
}

// applyOrderPatch shallow-merges a patch into the order it names.
// Only the fields present in the patch change; the rest of the order and
// every other order stay untouched.
func (f *Feed) applyOrderPatch(data json.RawMessage) {
	var probe struct {
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil || probe.ID == nil {
		f.metrics.RecordPatchDropped("malformed")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.orders {
		if f.orders[i].ID == *probe.ID {
			// Decoding into the existing value overwrites exactly the
			// fields the patch carries.
			if err := json.Unmarshal(data, &f.orders[i]); err != nil {
				f.metrics.RecordPatchDropped("malformed")
				return
			}
			f.metrics.RecordPatchApplied(feed.TypeOrderUpdate)
			f.logger.Debug("order patched", "order_id", *probe.ID, "status", f.orders[i].Status)
			return
		}
	}

	// No speculative insertion for unknown orders.
	f.metrics.RecordPatchDropped("unknown_order")
}

// applyDeliveryPatch attaches or replaces the delivery sub-record of the
// order named by the patch's orderId field.
func (f *Feed) applyDeliveryPatch(data json.RawMessage) {
	var delivery model.Delivery
	if err := json.Unmarshal(data, &delivery); err != nil || delivery.OrderID == 0 {
		f.metrics.RecordPatchDropped("malformed")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.orders {
		if f.orders[i].ID == delivery.OrderID {
			f.orders[i].Delivery = &delivery
			f.metrics.RecordPatchApplied(feed.TypeDeliveryUpdate)
			f.logger.Debug("delivery patched", "order_id", delivery.OrderID, "status", delivery.Status)
			return
		}
	}

	f.metrics.RecordPatchDropped("unknown_order")
}

// Orders returns a copy of the current order list.
func (f *Feed) Orders() []model.Order {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]model.Order, len(f.orders))
	copy(out, f.orders)
	return out
}

// Active returns orders still in flight.
func (f *Feed) Active() []model.Order {
	return f.filter(func(o model.Order) bool { return o.Status.IsActive() })
}

// History returns delivered and cancelled orders.
func (f *Feed) History() []model.Order {
	return f.filter(func(o model.Order) bool { return o.Status.IsTerminal() })
}

func (f *Feed) filter(keep func(model.Order) bool) []model.Order {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []model.Order
	for _, o := range f.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
