package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"skullcart/internal/model"

	"github.com/rs/zerolog"
)

// Store owns the list of line items. Every mutation is persisted
// write-through before it returns, then change listeners fire so
// dependents (badge counter, pricing refresh, payment button) can
// react. Insertion order is preserved for display.
//
// The storefront widget is conceptually single-threaded, but HTTP
// handlers run concurrently, so the store serialises mutations with a
// mutex to keep the one-mutator-at-a-time invariant.
type Store struct {
	mu        sync.Mutex
	items     []model.LineItem
	storage   Storage
	logger    zerolog.Logger
	listeners []func()
}

// NewStore creates a cart store backed by the given storage.
func NewStore(storage Storage, logger zerolog.Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger.With().Str("component", "cart-store").Logger(),
	}
}

// OnChange registers a listener invoked after every persisted mutation.
// Listeners run synchronously on the mutating call, outside the store
// lock, so they may read the store. Register before the store starts
// receiving traffic.
func (s *Store) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

// Load restores the cart from storage. Missing or malformed state
// initialises an empty cart; Load never fails the caller.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.storage.Read(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read saved cart, starting empty")
		s.items = nil
		return
	}
	if len(data) == 0 {
		s.items = nil
		return
	}

	var items []model.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn().Err(err).Msg("saved cart is malformed, starting empty")
		s.items = nil
		return
	}

	for _, item := range items {
		if item.ID == "" || item.Quantity < 1 || item.UnitPrice < 0 {
			s.logger.Warn().
				Str("item_id", item.ID).
				Int("quantity", item.Quantity).
				Msg("saved cart contains an invalid line item, starting empty")
			s.items = nil
			return
		}
	}

	s.items = items
	s.logger.Info().Int("line_items", len(items)).Msg("cart restored from storage")
}

// Add puts a product in the cart. If a line item with the same ID
// already exists its quantity is incremented; otherwise a new line item
// with quantity 1 is appended.
func (s *Store) Add(ctx context.Context, product model.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	s.mu.Lock()

	next := make([]model.LineItem, len(s.items))
	copy(next, s.items)

	merged := false
	for i := range next {
		if next[i].ID == product.ID {
			next[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		next = append(next, model.LineItem{
			ID:        product.ID,
			Name:      product.Name,
			UnitPrice: product.UnitPrice,
			ImageRef:  product.ImageRef,
			Quantity:  1,
		})
	}

	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}

	s.items = next
	s.mu.Unlock()

	s.logger.Debug().
		Str("product_id", product.ID).
		Bool("merged", merged).
		Msg("product added to cart")
	s.notify()
	return nil
}

// Remove deletes the line item with the given ID. Removing an absent
// ID is a no-op and does not persist or signal.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()

	next := make([]model.LineItem, 0, len(s.items))
	for _, item := range s.items {
		if item.ID != id {
			next = append(next, item)
		}
	}
	if len(next) == len(s.items) {
		s.mu.Unlock()
		return nil
	}

	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}

	s.items = next
	s.mu.Unlock()

	s.logger.Debug().Str("product_id", id).Msg("product removed from cart")
	s.notify()
	return nil
}

// Clear empties the cart. Called after a successful payment.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()

	next := []model.LineItem{}
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}

	s.items = next
	s.mu.Unlock()

	s.logger.Info().Msg("cart cleared")
	s.notify()
	return nil
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []model.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// ItemCount returns the sum of all quantities, used for the cart badge.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// persist writes the candidate item list through to storage. The
// in-memory list is only swapped in after the write succeeds, so
// persisted state never lags what callers can observe.
func (s *Store) persist(ctx context.Context, items []model.LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialise cart: %w", err)
	}
	if err := s.storage.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (s *Store) notify() {
	for _, fn := range s.listeners {
		fn()
	}
}
