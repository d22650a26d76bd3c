// Package storefront wires the catalog, cart, session, checkout flow and
// contact desk into one application and renders them as text.
package storefront

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"aerolite/internal/auth"
	"aerolite/internal/cart"
	"aerolite/internal/catalog"
	"aerolite/internal/checkout"
	"aerolite/internal/contact"
	"aerolite/internal/models"
	"aerolite/internal/notify"
	"aerolite/internal/storage"
	"aerolite/internal/view"
)

// Client is the backend API used by the storefront.
type Client interface {
	auth.Client
	catalog.ProductFetcher
	checkout.Client
}

type Options struct {
	NotifyDismiss time.Duration
	ContactDelay  time.Duration
}

type App struct {
	out      io.Writer
	notifier *notify.Notifier
	catalog  *catalog.Catalog
	cart     *cart.Manager
	session  *auth.Session
	flow     *checkout.Flow
	contact  *contact.Desk

	mu       sync.Mutex
	authTab  string
	category string
	search   string
}

func New(client Client, store storage.Store, out io.Writer, opts Options) *App {
	if out == nil {
		out = io.Discard
	}
	a := &App{out: out}
	a.notifier = notify.New(out, opts.NotifyDismiss)
	a.catalog = catalog.New(client)
	a.cart = cart.NewManager(store, a.catalog, a.notifier, a.renderCart)
	a.session = auth.NewSession(client, store, a.notifier, a)
	a.flow = checkout.NewFlow(a.cart, a.session, client, a.notifier, a)
	a.contact = contact.NewDesk(opts.ContactDelay, a.notifier)
	return a
}

// Start restores the persisted cart and session, loads the catalog and
// draws the first screen.
func (a *App) Start(ctx context.Context) error {
	if err := a.cart.Restore(ctx); err != nil {
		return err
	}
	if err := a.session.Restore(ctx); err != nil {
		return err
	}
	src := a.catalog.Load(ctx)
	slog.Info("Storefront ready", "products", len(a.catalog.Products()), "source", src, "cart_lines", a.cart.Len())

	view.Header(a.out, a.cart.Items(), a.session.User())
	view.ProductGrid(a.out, a.catalog.Products())
	return nil
}

func (a *App) Notifier() *notify.Notifier { return a.notifier }
func (a *App) Catalog() *catalog.Catalog  { return a.catalog }
func (a *App) Cart() *cart.Manager        { return a.cart }
func (a *App) Session() *auth.Session     { return a.session }
func (a *App) Flow() *checkout.Flow       { return a.flow }
func (a *App) Contact() *contact.Desk     { return a.contact }

// AuthTab is the open tab of the auth modal, or "" when it is closed.
func (a *App) AuthTab() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authTab
}

func (a *App) OpenAuthModal(tab string) {
	if tab != "register" {
		tab = "login"
	}
	a.mu.Lock()
	a.authTab = tab
	a.mu.Unlock()
	view.AuthModal(a.out, tab)
}

func (a *App) CloseAuthModal() {
	a.mu.Lock()
	a.authTab = ""
	a.mu.Unlock()
}

func (a *App) RenderAuth(user *models.User) {
	view.Header(a.out, a.cart.Items(), user)
}

func (a *App) RenderFlow(s checkout.Snapshot) {
	view.Flow(a.out, s)
}

func (a *App) renderCart(items []models.CartItem) {
	view.Header(a.out, items, a.session.User())
	if a.flow != nil && a.flow.State() == checkout.StateCartOpen {
		view.Cart(a.out, items)
	}
}

func (a *App) ShowProducts(category, search string) {
	a.mu.Lock()
	a.category, a.search = category, search
	a.mu.Unlock()

	products := a.catalog.Filter(category, search)
	if category != "" || search != "" {
		fmt.Fprintf(a.out, "%d of %d aircraft\n", len(products), len(a.catalog.Products()))
	}
	view.ProductGrid(a.out, products)
}

// Filters returns the last category and search term applied to the grid.
func (a *App) Filters() (string, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.category, a.search
}
