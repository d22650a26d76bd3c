// Package catalog holds the products offered for sale. The list comes from
// the backend, or from a static fallback when the backend cannot be read.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"aerolite/internal/models"
	"aerolite/internal/resilience"
)

type Source string

const (
	SourceNone     Source = ""
	SourceBackend  Source = "backend"
	SourceFallback Source = "fallback"
)

type ProductFetcher interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
}

type Catalog struct {
	fetcher ProductFetcher
	cb      *resilience.CircuitBreaker[[]models.Product]
	sfg     singleflight.Group

	mu       sync.RWMutex
	products []models.Product
	source   Source
}

func New(fetcher ProductFetcher) *Catalog {
	return &Catalog{
		fetcher: fetcher,
		cb:      resilience.NewCircuitBreaker[[]models.Product]("products", 3, 30*time.Second),
	}
}

// Load replaces the product list. It never fails: any backend problem is
// logged and the fallback list is used instead.
func (c *Catalog) Load(ctx context.Context) Source {
	v, _, _ := c.sfg.Do("products", func() (interface{}, error) {
		products, err := c.cb.Execute(func() ([]models.Product, error) {
			return c.fetcher.GetProducts(ctx)
		})
		if err != nil {
			slog.Error("Error loading products from backend", "error", err)
			products = Fallback()
			slog.Info("Using sample products", "count", len(products))
			c.set(products, SourceFallback)
			return SourceFallback, nil
		}

		slog.Info("Loaded products from backend", "count", len(products))
		c.set(products, SourceBackend)
		return SourceBackend, nil
	})
	return v.(Source)
}

func (c *Catalog) set(products []models.Product, src Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
	c.source = src
}

func (c *Catalog) Source() Source {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.source
}

func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Product(nil), c.products...)
}

func (c *Catalog) Lookup(id int64) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Categories lists distinct categories in the order they first appear.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

func (c *Catalog) Filter(category, term string) []models.Product {
	return Filter(c.Products(), category, term)
}

// Filter keeps products whose category equals category and whose name or
// description contains term, ignoring case. Empty arguments match everything.
func Filter(products []models.Product, category, term string) []models.Product {
	term = strings.ToLower(term)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}
