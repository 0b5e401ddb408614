// Package cart owns the pending order's line items.
//
// Lines are keyed by catalog item id: adding an item already present merges
// into the existing line rather than duplicating it. Every mutation rewrites
// the persisted copy wholesale, so a reload reconstructs the cart exactly.
//
// Quantity is normalized to 1 everywhere a value below 1 could appear, both
// on add and when reading back old persisted carts.
package cart

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/palanikalyan/K-MATO/pkg/metrics"
	"github.com/palanikalyan/K-MATO/pkg/model"
	"github.com/palanikalyan/K-MATO/pkg/storage"
)

// Key is the fixed storage key for the serialized cart.
const Key = "kmato_cart"

// Store owns the cart state.
type Store struct {
	storage storage.Store
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	items []model.CartLine
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// New creates a cart store backed by st, loading any persisted cart.
// Absent or malformed persisted data starts an empty cart; it is never
// surfaced as an error.
func New(st storage.Store, opts ...Option) *Store {
	s := &Store{
		storage: st,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "cart")

	if data, err := st.Get(Key); err == nil && len(data) > 0 {
		if jsonErr := json.Unmarshal(data, &s.items); jsonErr != nil {
			s.logger.Debug("discarding malformed persisted cart", "error", jsonErr)
			s.items = nil
		}
	}

	return s
}

// AddItem adds qty of item to the cart. If a line with the same id exists
// its quantity increases by qty; otherwise a new line is appended, preserving
// insertion order. qty below 1 counts as 1.
func (s *Store) AddItem(item model.CartLine, qty int) {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity = orOne(s.items[i].Quantity) + qty
			s.persistLocked()
			s.metrics.RecordCartMutation("add")
			return
		}
	}

	item.Quantity = qty
	s.items = append(s.items, item)
	s.persistLocked()
	s.metrics.RecordCartMutation("add")
}

// RemoveItem deletes the line with the given id; no-op when absent.
func (s *Store) RemoveItem(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(id)
	s.metrics.RecordCartMutation("remove")
}

// UpdateQuantity replaces the line's quantity. A quantity of zero or below
// removes the line, exactly as RemoveItem would.
func (s *Store) UpdateQuantity(id int64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		s.removeLocked(id)
		s.metrics.RecordCartMutation("update")
		return
	}

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = qty
			s.persistLocked()
			break
		}
	}
	s.metrics.RecordCartMutation("update")
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persistLocked()
	s.metrics.RecordCartMutation("clear")
}

// Items returns the live backing slice. Callers must not mutate it; all
// changes go through the store so the persisted copy stays in sync.
func (s *Store) Items() []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

// Total returns the sum over lines of price × quantity. A missing price
// counts as 0; a missing quantity counts as 1.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, line := range s.items {
		total += line.Price * float64(orOne(line.Quantity))
	}
	return total
}

// ItemCount returns the sum of quantities, with the same missing-value
// default as Total.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, line := range s.items {
		count += orOne(line.Quantity)
	}
	return count
}

// RestaurantID returns the restaurant the cart belongs to (the first line's)
// and whether every line agrees with it. An empty cart returns (0, true).
func (s *Store) RestaurantID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return 0, true
	}
	id := s.items[0].RestaurantID
	for _, line := range s.items[1:] {
		if line.RestaurantID != id {
			return id, false
		}
	}
	return id, true
}

// removeLocked deletes the line with the given id and persists.
// Caller must hold the lock.
func (s *Store) removeLocked(id int64) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// persistLocked rewrites the persisted cart. A write failure leaves the
// in-memory cart current; it is logged, not surfaced, so a flaky disk never
// breaks an add-to-cart.
func (s *Store) persistLocked() {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Warn("failed to serialize cart", "error", err)
		return
	}
	if err := s.storage.Set(Key, data); err != nil {
		s.logger.Warn("failed to persist cart", "error", err)
	}
}

// orOne treats a missing (zero or negative) quantity as 1.
func orOne(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}
