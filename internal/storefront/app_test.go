package storefront

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aerolite/internal/backend"
	"aerolite/internal/catalog"
	"aerolite/internal/checkout"
	"aerolite/internal/config"
	"aerolite/internal/services"
	"aerolite/internal/storage"
)

type fixedApprover bool

func (f fixedApprover) Approve(decimal.Decimal) bool { return bool(f) }

func newBackend(t *testing.T, approve bool) *httptest.Server {
	t.Helper()
	h := backend.NewHandler(backend.NewStore(), fixedApprover(approve), "test-secret", nil)
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func newApp(t *testing.T, baseURL string, store storage.Store) (*App, *bytes.Buffer) {
	t.Helper()
	client := services.NewServiceClient(&config.Config{APIBaseURL: baseURL, HTTPTimeout: 5 * time.Second})
	out := &bytes.Buffer{}
	app := New(client, store, out, Options{ContactDelay: time.Millisecond})
	require.NoError(t, app.Start(context.Background()))
	return app, out
}

func run(t *testing.T, app *App, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, app.Execute(context.Background(), line), line)
	}
}

func lastMessage(t *testing.T, app *App) string {
	t.Helper()
	n, ok := app.Notifier().Last()
	require.True(t, ok)
	return n.Message
}

func TestPurchaseJourney(t *testing.T) {
	srv := newBackend(t, true)
	store := storage.NewMemoryStore()
	app, out := newApp(t, srv.URL+"/api", store)
	ctx := context.Background()

	assert.Equal(t, catalog.SourceBackend, app.Catalog().Source())
	assert.Len(t, app.Catalog().Products(), 31)

	run(t, app, "add id=1", "add id=1", "add id=18")
	assert.Equal(t, 3, app.Cart().Count())
	assert.Equal(t, "Robinson R44 added to your hangar!", lastMessage(t, app))

	// checkout without a session opens the login dialog
	run(t, app, "cart", "checkout")
	assert.Equal(t, "login", app.AuthTab())
	assert.Equal(t, checkout.StateCartOpen, app.Flow().State())

	run(t, app, `register first=Ada last=Lovelace email=ada@example.com password=secret`)
	assert.True(t, app.Session().Authenticated())
	assert.Equal(t, "", app.AuthTab())
	assert.Equal(t, "Account created successfully!", lastMessage(t, app))
	assert.Contains(t, out.String(), "Hangar (3) | Ada | Logout")

	run(t, app, "checkout", `order name="Ada Lovelace" address="1 Runway Rd, Hangar 4"`)
	assert.Equal(t, checkout.StatePaymentOpen, app.Flow().State())
	assert.NotZero(t, app.Flow().OrderID())
	assert.Contains(t, out.String(), "Gulfstream G650 x2")

	run(t, app, `pay card="4242 4242 4242 4242" expiry=12/29 cvc=123 name="Ada Lovelace"`)
	assert.Equal(t, checkout.StateCompleted, app.Flow().State())
	assert.True(t, app.Cart().Empty())
	assert.Regexp(t, `^Order confirmed! Your aircraft will be delivered soon\. Transaction ID: txn_[0-9a-f]{24}$`, lastMessage(t, app))

	persisted, err := storage.LoadCart(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestPaymentDeclinedKeepsOrder(t *testing.T) {
	srv := newBackend(t, false)
	app, _ := newApp(t, srv.URL+"/api", storage.NewMemoryStore())

	run(t, app,
		`register first=Ada last=Lovelace email=ada@example.com password=secret`,
		"add id=5", "checkout", "order address=Somewhere")
	orderID := app.Flow().OrderID()
	require.NotZero(t, orderID)

	err := app.Execute(context.Background(), `pay card=4242424242424242 expiry=12/29 cvc=123 name=Ada`)

	require.Error(t, err)
	assert.Equal(t, "Payment declined: Insufficient funds", lastMessage(t, app))
	assert.Equal(t, checkout.StatePaymentOpen, app.Flow().State())
	assert.Equal(t, orderID, app.Flow().OrderID())
	assert.Equal(t, checkout.SubmitControl{Label: "Complete Payment"}, app.Flow().SubmitControl())
	assert.False(t, app.Cart().Empty())
}

func TestShortCardBlockedLocally(t *testing.T) {
	srv := newBackend(t, true)
	app, _ := newApp(t, srv.URL+"/api", storage.NewMemoryStore())
	run(t, app,
		`register first=Ada last=Lovelace email=ada@example.com password=secret`,
		"add id=5", "checkout", "order address=Somewhere")

	err := app.Execute(context.Background(), `pay card=424242424242424 expiry=12/29 cvc=123 name=Ada`)

	require.Error(t, err)
	assert.Equal(t, "Please enter a valid 16-digit card number", lastMessage(t, app))
	assert.Equal(t, checkout.StatePaymentOpen, app.Flow().State())
}

func TestEmptyCartCheckout(t *testing.T) {
	srv := newBackend(t, true)
	app, _ := newApp(t, srv.URL+"/api", storage.NewMemoryStore())

	err := app.Execute(context.Background(), "checkout")

	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Equal(t, "Your hangar is empty!", lastMessage(t, app))
	assert.Equal(t, checkout.StateIdle, app.Flow().State())
	assert.Equal(t, "", app.AuthTab())
}

func TestFallbackCatalogWhenBackendDown(t *testing.T) {
	srv := newBackend(t, true)
	url := srv.URL + "/api"
	srv.Close()

	app, out := newApp(t, url, storage.NewMemoryStore())

	assert.Equal(t, catalog.SourceFallback, app.Catalog().Source())
	assert.Len(t, app.Catalog().Products(), 31)
	assert.Contains(t, out.String(), "Gulfstream G650")

	run(t, app, "add id=1")
	assert.Equal(t, 1, app.Cart().Count())

	err := app.Execute(context.Background(), "login email=ada@example.com password=secret")
	require.Error(t, err)
	assert.Equal(t, "Network error. Please try again.", lastMessage(t, app))
	assert.Equal(t, "login", app.AuthTab())
}

func TestRestoreAcrossRestart(t *testing.T) {
	srv := newBackend(t, true)
	store := storage.NewMemoryStore()

	first, _ := newApp(t, srv.URL+"/api", store)
	run(t, first,
		`register first=Ada last=Lovelace email=ada@example.com password=secret`,
		"add id=3", "add id=3")

	second, out := newApp(t, srv.URL+"/api", store)

	assert.True(t, second.Session().Authenticated())
	assert.Equal(t, "Ada", second.Session().User().FirstName)
	assert.Equal(t, 2, second.Cart().Count())
	assert.Contains(t, out.String(), "Hangar (2) | Ada | Logout")

	run(t, second, "logout")
	assert.False(t, second.Session().Authenticated())
	assert.Equal(t, "Logged out successfully", lastMessage(t, second))
}

func TestProductsFilter(t *testing.T) {
	srv := newBackend(t, true)
	app, out := newApp(t, srv.URL+"/api", storage.NewMemoryStore())
	out.Reset()

	run(t, app, `products category=Helicopter search=robinson`)

	category, search := app.Filters()
	assert.Equal(t, "Helicopter", category)
	assert.Equal(t, "robinson", search)
	assert.Contains(t, out.String(), "Robinson")
	assert.NotContains(t, out.String(), "Gulfstream")
}

func TestContactAndClose(t *testing.T) {
	srv := newBackend(t, true)
	app, _ := newApp(t, srv.URL+"/api", storage.NewMemoryStore())

	run(t, app, `contact first=Ada last=Lovelace email=ada@example.com subject=purchase message="Call me" urgent=true`)
	assert.True(t, app.Contact().SuccessOpen())
	assert.Equal(t, "Message sent urgently! We'll contact you soon.", lastMessage(t, app))

	run(t, app, "auth tab=register")
	assert.Equal(t, "register", app.AuthTab())

	run(t, app, "close")
	assert.Equal(t, "", app.AuthTab())
	assert.True(t, app.Contact().SuccessOpen())

	run(t, app, "close")
	assert.False(t, app.Contact().SuccessOpen())
}

func TestExecute_Errors(t *testing.T) {
	srv := newBackend(t, true)
	app, _ := newApp(t, srv.URL+"/api", storage.NewMemoryStore())
	ctx := context.Background()

	assert.ErrorIs(t, app.Execute(ctx, "fly"), ErrUnknownCommand)
	assert.ErrorIs(t, app.Execute(ctx, "add id=abc"), ErrBadArgument)
	assert.ErrorIs(t, app.Execute(ctx, "add 1"), ErrBadArgument)
	assert.ErrorIs(t, app.Execute(ctx, "quit"), ErrQuit)
	assert.NoError(t, app.Execute(ctx, "   "))
}

func TestParse(t *testing.T) {
	cmd, err := Parse(`Order name="Ada Lovelace" address="1 Runway Rd" email=`)
	require.NoError(t, err)
	assert.Equal(t, "order", cmd.Name)
	assert.Equal(t, map[string]string{"name": "Ada Lovelace", "address": "1 Runway Rd", "email": ""}, cmd.Fields)

	_, err = Parse(`order address="1 Runway`)
	assert.ErrorIs(t, err, ErrBadArgument)

	cmd, err = Parse("")
	require.NoError(t, err)
	assert.Equal(t, "", cmd.Name)
	assert.True(t, strings.Contains(helpText, "checkout"))
}

func TestCartLockedDuringOrder(t *testing.T) {
	srv := newBackend(t, true)
	app, _ := newApp(t, srv.URL+"/api", storage.NewMemoryStore())
	ctx := context.Background()
	run(t, app,
		`register first=Ada last=Lovelace email=ada@example.com password=secret`,
		"add id=1", "checkout")

	for _, line := range []string{"remove id=1", "qty id=1 delta=1", "add id=2"} {
		assert.ErrorIs(t, app.Execute(ctx, line), ErrCartLocked, line)
		assert.Equal(t, "Finish or close checkout before changing your hangar", lastMessage(t, app))
	}

	run(t, app, "order address=Somewhere")
	require.Equal(t, checkout.StatePaymentOpen, app.Flow().State())
	assert.ErrorIs(t, app.Execute(ctx, "add id=2"), ErrCartLocked)

	run(t, app, `pay card=4242424242424242 expiry=12/29 cvc=123 name=Ada`)
	assert.Equal(t, checkout.StateCompleted, app.Flow().State())
	assert.True(t, app.Cart().Empty())

	// the lock lifts once the flow is done
	run(t, app, "add id=2")
	assert.Equal(t, 1, app.Cart().Count())
}

func TestCartUnlockedAfterClosingCheckout(t *testing.T) {
	srv := newBackend(t, true)
	app, _ := newApp(t, srv.URL+"/api", storage.NewMemoryStore())
	run(t, app,
		`register first=Ada last=Lovelace email=ada@example.com password=secret`,
		"add id=1", "checkout", "close", "remove id=1")

	assert.True(t, app.Cart().Empty())
	assert.Equal(t, checkout.StateIdle, app.Flow().State())
}
