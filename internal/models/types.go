package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The backend and the persisted cart carry prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type User struct {
	ID        int64  `json:"id,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsAdmin   bool   `json:"isAdmin,omitempty"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
}

// CartItem is one line of the cart. Price is the catalog price captured when
// the line was first added.
type CartItem struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderRequest struct {
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress string          `json:"shippingAddress"`
}

type OrderResponse struct {
	OrderID         int64  `json:"orderId"`
	RequiresPayment bool   `json:"requiresPayment"`
	Message         string `json:"message,omitempty"`
}

type PaymentData struct {
	Method         string `json:"method"`
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"`
	CVC            string `json:"cvc"`
	CardholderName string `json:"cardholderName"`
}

type PaymentRequest struct {
	OrderID     int64           `json:"orderId"`
	PaymentData PaymentData     `json:"paymentData"`
	Amount      decimal.Decimal `json:"amount"`
}

type PaymentResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId,omitempty"`
	OrderID       int64  `json:"orderId,omitempty"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message     string `json:"message,omitempty"`
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
