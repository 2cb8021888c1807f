// Package cart implements the shopping cart: a list of line items unique by
// product ID, persisted in full after every mutation.
package cart

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultKey is the storage key the cart is persisted under.
const DefaultKey = "handmade_cart"

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidPrice    = errors.New("price must be greater than 0")
)

// Product is what a caller adds to the cart. Name is already localized.
type Product struct {
	ID     string
	Name   string
	Price  decimal.Decimal
	Images []string
}

// Item is one line of the cart.
type Item struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	ImageURL  string
	Quantity  int
}

// Subtotal returns UnitPrice × Quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Store owns the cart contents. Every mutation is written to Storage before
// the call returns; write failures are logged and the in-memory cart stays
// authoritative.
type Store struct {
	storage Storage
	key     string
	lg      *zap.Logger

	mu        sync.Mutex
	items     []Item
	listeners []func([]Item)
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLogger sets the logger for storage failures.
func WithLogger(lg *zap.Logger) Option {
	return func(s *Store) { s.lg = lg }
}

// NewStore creates a Store and loads the persisted cart. Missing or corrupt
// data yields an empty cart.
func NewStore(ctx context.Context, storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     DefaultKey,
		lg:      zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.items = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []Item {
	data, err := s.storage.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotExist) {
			s.lg.Warn("Load cart", zap.String("key", s.key), zap.Error(&StorageError{Op: "load", Err: err}))
		}
		return nil
	}
	items, err := Decode(data)
	if err != nil {
		s.lg.Warn("Discarding corrupt cart", zap.String("key", s.key), zap.Error(&StorageError{Op: "decode", Err: err}))
		return nil
	}
	return items
}

// OnChange registers fn to be called with a copy of the items after every mutation.
func (s *Store) OnChange(fn func([]Item)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// AddItem adds qty units of p. An existing line for the same product has its
// quantity increased; there is no upper bound.
func (s *Store) AddItem(ctx context.Context, p Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if !p.Price.IsPositive() {
		return ErrInvalidPrice
	}
	s.mutate(ctx, func(items []Item) []Item {
		if i := index(items, p.ID); i >= 0 {
			items[i].Quantity += qty
			return items
		}
		var image string
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		return append(items, Item{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			ImageURL:  image,
			Quantity:  qty,
		})
	})
	return nil
}

// RemoveItem deletes the line for productID. Unknown IDs are ignored.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	found := index(s.items, productID) >= 0
	s.mu.Unlock()
	if !found {
		return
	}
	s.mutate(ctx, func(items []Item) []Item {
		return slices.DeleteFunc(items, func(it Item) bool { return it.ProductID == productID })
	})
}

// UpdateQuantity sets the quantity of productID. A quantity ≤ 0 removes the
// line. Unknown IDs are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, qty int) {
	if qty <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}
	s.mu.Lock()
	i := index(s.items, productID)
	s.mu.Unlock()
	if i < 0 {
		return
	}
	s.mutate(ctx, func(items []Item) []Item {
		if i := index(items, productID); i >= 0 {
			items[i].Quantity = qty
		}
		return items
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, func([]Item) []Item { return nil })
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Total returns Σ UnitPrice × Quantity, zero for an empty cart.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// ItemCount returns Σ Quantity, zero for an empty cart.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *Store) mutate(ctx context.Context, fn func([]Item) []Item) {
	s.mu.Lock()
	s.items = fn(s.items)
	snapshot := slices.Clone(s.items)
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	if err := s.storage.Save(ctx, s.key, Encode(snapshot)); err != nil {
		s.lg.Warn("Save cart", zap.String("key", s.key), zap.Error(&StorageError{Op: "save", Err: err}))
	}
	for _, fn := range listeners {
		fn(snapshot)
	}
}

func index(items []Item, productID string) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.ProductID == productID })
}
