// Package backend is a development stand-in for the storefront's REST API.
// It keeps users and orders in memory and simulates card payments.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"aerolite/internal/auth"
	"aerolite/internal/catalog"
	"aerolite/internal/models"
	"aerolite/internal/telemetry"
)

const tokenTTL = 24 * time.Hour

// Limiter throttles the credential endpoints per client address.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type Handler struct {
	store    *Store
	approver Approver
	secret   []byte
	limiter  Limiter
	now      func() time.Time
}

// NewHandler builds the API handler. limiter may be nil.
func NewHandler(store *Store, approver Approver, secret string, limiter Limiter) *Handler {
	return &Handler{
		store:    store,
		approver: approver,
		secret:   []byte(secret),
		limiter:  limiter,
		now:      time.Now,
	}
}

func (h *Handler) Routes() http.Handler {
	authMiddleware := auth.NewMiddleware(string(h.secret))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(telemetry.Middleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Aerolite Backend is running!"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Products)

		r.Group(func(r chi.Router) {
			r.Use(h.rateLimit)
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.ValidateToken)
			r.Post("/orders", h.CreateOrder)
			r.Post("/process-payment", h.ProcessPayment)
		})
	})

	return r
}

func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		clientIP, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			clientIP = r.RemoteAddr
		}
		if !h.limiter.Allow(r.Context(), clientIP) {
			slog.Warn("Rate limit exceeded", "ip", clientIP, "path", r.URL.Path)
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "No data received")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" ||
		strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if len(req.Password) < 3 {
		writeError(w, http.StatusBadRequest, "Password must be at least 3 characters")
		return
	}

	user, err := h.store.CreateUser(req.FirstName, req.LastName, req.Email, req.Password)
	if errors.Is(err, ErrEmailTaken) {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		slog.Error("Registration error", "error", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := auth.IssueToken(h.secret, user, tokenTTL, h.now())
	if err != nil {
		slog.Error("Token signing failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	slog.Info("User registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, models.AuthResponse{
		Message:     "User created successfully",
		AccessToken: token,
		User:        &user,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "No data received")
		return
	}

	user, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.IssueToken(h.secret, user, tokenTTL, h.now())
	if err != nil {
		slog.Error("Token signing failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{
		Message:     "Login successful",
		AccessToken: token,
		User:        &user,
	})
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Fallback())
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Order creation failed")
		return
	}

	order := h.store.CreateOrder(userID, req, h.now())
	slog.Info("Order created, payment pending", "order_id", order.ID, "user_id", userID, "total", order.TotalAmount.String())

	writeJSON(w, http.StatusCreated, models.OrderResponse{
		OrderID:         order.ID,
		RequiresPayment: true,
		Message:         "Order created successfully - Proceed to payment",
	})
}

func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Payment processing failed")
		return
	}
	if req.OrderID == 0 {
		writeError(w, http.StatusBadRequest, "Order ID required")
		return
	}
	if _, err := h.store.Order(req.OrderID, userID); err != nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	result := charge(h.approver, req.PaymentData, req.Amount)
	if !result.Success {
		if err := h.store.MarkFailed(req.OrderID, userID); err != nil {
			slog.Error("Order update failed", "order_id", req.OrderID, "error", err)
		}
		slog.Info("Payment failed", "order_id", req.OrderID, "reason", result.Error)
		writeJSON(w, http.StatusBadRequest, models.PaymentResponse{Success: false, Error: result.Error})
		return
	}

	method := req.PaymentData.Method
	if method == "" {
		method = "card"
	}
	if err := h.store.MarkPaid(req.OrderID, userID, method, result.TransactionID); err != nil {
		slog.Error("Order update failed", "order_id", req.OrderID, "error", err)
		writeError(w, http.StatusInternalServerError, "Payment processing failed")
		return
	}

	slog.Info("Payment successful", "order_id", req.OrderID, "transaction_id", result.TransactionID)
	writeJSON(w, http.StatusOK, models.PaymentResponse{
		Success:       true,
		Message:       "Payment processed successfully",
		TransactionID: result.TransactionID,
		OrderID:       req.OrderID,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode error", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}
