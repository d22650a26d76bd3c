package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aerolite/internal/models"
)

const testSecret = "test-secret"

type fixedApprover bool

func (f fixedApprover) Approve(decimal.Decimal) bool { return bool(f) }

type denyAll struct{ calls int }

func (d *denyAll) Allow(context.Context, string) bool {
	d.calls++
	return false
}

func newServer(t *testing.T, approve bool) (*httptest.Server, *Store) {
	t.Helper()
	store := NewStore()
	srv := httptest.NewServer(NewHandler(store, fixedApprover(approve), testSecret, nil).Routes())
	t.Cleanup(srv.Close)
	return srv, store
}

func post(t *testing.T, srv *httptest.Server, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewReader(buf))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func register(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, body := post(t, srv, "/api/register", "", models.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "Ada@Example.com ", Password: "secret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["access_token"].(string)
}

func TestRegister(t *testing.T) {
	srv, _ := newServer(t, true)

	resp, body := post(t, srv, "/api/register", "", models.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "Ada@Example.com", Password: "secret",
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["access_token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.Equal(t, "Ada", user["firstName"])
}

func TestRegister_Rejections(t *testing.T) {
	srv, _ := newServer(t, true)
	register(t, srv)

	tests := []struct {
		name    string
		req     models.RegisterRequest
		wantErr string
	}{
		{"missing field", models.RegisterRequest{FirstName: "A", Email: "b@c.d", Password: "abc"}, "All fields are required"},
		{"short password", models.RegisterRequest{FirstName: "A", LastName: "B", Email: "b@c.d", Password: "ab"}, "Password must be at least 3 characters"},
		{"duplicate email", models.RegisterRequest{FirstName: "A", LastName: "B", Email: "ada@example.com", Password: "abc"}, "Email already registered"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, srv, "/api/register", "", tt.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantErr, body["error"])
		})
	}
}

func TestLogin(t *testing.T) {
	srv, _ := newServer(t, true)
	register(t, srv)

	resp, body := post(t, srv, "/api/login", "", models.LoginRequest{Email: "ada@example.com", Password: "secret"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["access_token"])

	resp, body = post(t, srv, "/api/login", "", models.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", body["error"])
}

func TestProducts(t *testing.T) {
	srv, _ := newServer(t, true)

	resp, err := srv.Client().Get(srv.URL + "/api/products")
	require.NoError(t, err)
	defer resp.Body.Close()

	var products []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	assert.Len(t, products, 31)
	assert.Equal(t, int64(1), products[0].ID)
}

func TestOrders_RequireToken(t *testing.T) {
	srv, _ := newServer(t, true)

	resp, body := post(t, srv, "/api/orders", "", models.OrderRequest{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication required", body["error"])

	resp, body = post(t, srv, "/api/orders", "garbage", models.OrderRequest{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", body["error"])
}

func createOrder(t *testing.T, srv *httptest.Server, token string) int64 {
	t.Helper()
	resp, body := post(t, srv, "/api/orders", token, models.OrderRequest{
		Items:           []models.OrderItem{{ProductID: 1, Quantity: 1, Price: decimal.NewFromInt(65000000)}},
		TotalAmount:     decimal.NewFromInt(65000000),
		ShippingAddress: "1 Runway Rd",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["requiresPayment"])
	return int64(body["orderId"].(float64))
}

var card = models.PaymentData{Method: "card", CardNumber: "4242424242424242", ExpiryDate: "12/29", CVC: "123", CardholderName: "Ada"}

func TestProcessPayment_Approved(t *testing.T) {
	srv, store := newServer(t, true)
	token := register(t, srv)
	orderID := createOrder(t, srv, token)

	resp, body := post(t, srv, "/api/process-payment", token, models.PaymentRequest{
		OrderID: orderID, PaymentData: card, Amount: decimal.NewFromInt(65000000),
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Regexp(t, `^txn_[0-9a-f]{24}$`, body["transactionId"])

	order, err := store.Order(orderID, 1)
	require.NoError(t, err)
	assert.Equal(t, OrderConfirmed, order.Status)
	assert.Equal(t, PaymentPaid, order.PaymentStatus)
	assert.Equal(t, body["transactionId"], order.TransactionID)
}

func TestProcessPayment_Declined(t *testing.T) {
	srv, store := newServer(t, false)
	token := register(t, srv)
	orderID := createOrder(t, srv, token)

	resp, body := post(t, srv, "/api/process-payment", token, models.PaymentRequest{
		OrderID: orderID, PaymentData: card, Amount: decimal.NewFromInt(1),
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Payment declined: Insufficient funds", body["error"])

	order, err := store.Order(orderID, 1)
	require.NoError(t, err)
	assert.Equal(t, OrderPaymentFailed, order.Status)
	assert.Equal(t, PaymentFailed, order.PaymentStatus)
}

func TestProcessPayment_BadRequests(t *testing.T) {
	srv, _ := newServer(t, true)
	token := register(t, srv)
	orderID := createOrder(t, srv, token)

	resp, body := post(t, srv, "/api/process-payment", token, models.PaymentRequest{PaymentData: card})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Order ID required", body["error"])

	resp, _ = post(t, srv, "/api/process-payment", token, models.PaymentRequest{OrderID: orderID + 100, PaymentData: card})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	short := card
	short.CardNumber = "4242"
	resp, body = post(t, srv, "/api/process-payment", token, models.PaymentRequest{OrderID: orderID, PaymentData: short})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid card number", body["error"])
}

func TestRateLimit(t *testing.T) {
	limiter := &denyAll{}
	srv := httptest.NewServer(NewHandler(NewStore(), fixedApprover(true), testSecret, limiter).Routes())
	t.Cleanup(srv.Close)

	resp, body := post(t, srv, "/api/login", "", models.LoginRequest{Email: "a@b.c", Password: "abc"})

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too many requests", body["error"])
	assert.Equal(t, 1, limiter.calls)

	// catalog reads are not limited
	getResp, err := srv.Client().Get(srv.URL + "/api/products")
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
	assert.Equal(t, 1, limiter.calls)
}

func TestRandomApprover(t *testing.T) {
	always := NewRandomApprover(1, 1)
	never := NewRandomApprover(0, 1)
	for i := 0; i < 50; i++ {
		assert.True(t, always.Approve(decimal.Zero))
		assert.False(t, never.Approve(decimal.Zero))
	}
}
