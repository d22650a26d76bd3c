// Package cart keeps the user's pending selection ("the hangar") and mirrors
// it to client storage after every change.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"aerolite/internal/models"
	"aerolite/internal/storage"
	"aerolite/internal/telemetry"
)

type ProductLookup interface {
	Lookup(id int64) (models.Product, bool)
}

type Notifier interface {
	Success(message string)
}

// RenderFunc receives the cart contents after each mutation.
type RenderFunc func(items []models.CartItem)

// Manager owns the ordered cart lines. At most one line exists per product
// and no line is kept with a quantity below one.
type Manager struct {
	store    storage.Store
	products ProductLookup
	notifier Notifier
	render   RenderFunc

	mu    sync.Mutex
	items []models.CartItem
}

func NewManager(store storage.Store, products ProductLookup, notifier Notifier, render RenderFunc) *Manager {
	if render == nil {
		render = func([]models.CartItem) {}
	}
	return &Manager{
		store:    store,
		products: products,
		notifier: notifier,
		render:   render,
		items:    []models.CartItem{},
	}
}

// Restore loads the persisted cart. Lines that break the cart invariants are
// repaired: duplicates are merged and non-positive quantities dropped.
func (m *Manager) Restore(ctx context.Context) error {
	items, err := storage.LoadCart(ctx, m.store)
	if err != nil {
		return fmt.Errorf("restore cart failed: %w", err)
	}

	clean := make([]models.CartItem, 0, len(items))
	index := make(map[int64]int)
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if i, ok := index[it.ProductID]; ok {
			clean[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(clean)
		clean = append(clean, it)
	}

	m.mu.Lock()
	m.items = clean
	m.mu.Unlock()

	m.render(m.Items())
	return nil
}

// Add puts one unit of the product in the cart. Unknown products are logged
// and otherwise ignored.
func (m *Manager) Add(ctx context.Context, productID int64) error {
	slog.Debug("Adding to cart", "product_id", productID)
	product, ok := m.products.Lookup(productID)
	if !ok {
		slog.Error("Product not found", "product_id", productID)
		return nil
	}

	m.mu.Lock()
	found := false
	for i := range m.items {
		if m.items[i].ProductID == productID {
			m.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		m.items = append(m.items, models.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  1,
		})
	}
	m.mu.Unlock()

	err := m.commit(ctx, "add")
	m.notifier.Success(fmt.Sprintf("%s added to your hangar!", product.Name))
	return err
}

// UpdateQuantity adds delta to a line. A result of zero or less removes it.
func (m *Manager) UpdateQuantity(ctx context.Context, productID int64, delta int) error {
	m.mu.Lock()
	idx := m.indexOf(productID)
	if idx < 0 {
		m.mu.Unlock()
		slog.Warn("Cart item not found", "product_id", productID)
		return nil
	}
	if m.items[idx].Quantity+delta <= 0 {
		m.mu.Unlock()
		return m.Remove(ctx, productID)
	}
	m.items[idx].Quantity += delta
	m.mu.Unlock()

	return m.commit(ctx, "update")
}

func (m *Manager) Remove(ctx context.Context, productID int64) error {
	m.mu.Lock()
	kept := m.items[:0:0]
	for _, it := range m.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	m.items = kept
	m.mu.Unlock()

	return m.commit(ctx, "remove")
}

func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.items = []models.CartItem{}
	m.mu.Unlock()

	return m.commit(ctx, "clear")
}

// commit persists the current cart and then re-renders it. The render runs
// even when the write fails.
func (m *Manager) commit(ctx context.Context, op string) error {
	telemetry.CartMutationsTotal.WithLabelValues(op).Inc()
	items := m.Items()

	err := storage.SaveCart(ctx, m.store, items)
	if err != nil {
		slog.Error("Failed to persist cart", "op", op, "error", err)
		err = fmt.Errorf("persist cart failed: %w", err)
	}

	m.render(items)
	return err
}

func (m *Manager) indexOf(productID int64) int {
	for i := range m.items {
		if m.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Items returns a copy of the cart lines in insertion order.
func (m *Manager) Items() []models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CartItem{}, m.items...)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Manager) Empty() bool {
	return m.Len() == 0
}

func (m *Manager) Total() decimal.Decimal {
	return Total(m.Items())
}

func (m *Manager) Count() int {
	return Count(m.Items())
}

// Total is the sum of price times quantity over items.
func Total(items []models.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

// Count is the number of units across items.
func Count(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
