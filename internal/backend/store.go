package backend

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"aerolite/internal/models"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrOrderNotFound      = errors.New("order not found")
)

const (
	OrderPending       = "pending"
	OrderConfirmed     = "confirmed"
	OrderPaymentFailed = "payment_failed"

	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

type Order struct {
	ID              int64
	UserID          int64
	Items           []models.OrderItem
	TotalAmount     decimal.Decimal
	ShippingAddress string
	Status          string
	PaymentStatus   string
	PaymentMethod   string
	TransactionID   string
	CreatedAt       time.Time
}

type userRecord struct {
	user         models.User
	passwordHash []byte
}

// Store is the backend's in-memory database. Emails are stored lowercased.
type Store struct {
	mu          sync.RWMutex
	users       map[string]*userRecord
	orders      map[int64]*Order
	nextUserID  int64
	nextOrderID int64
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]*userRecord),
		orders: make(map[int64]*Order),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) CreateUser(firstName, lastName, email, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email = normalizeEmail(email)
	if _, exists := s.users[email]; exists {
		return models.User{}, ErrEmailTaken
	}

	s.nextUserID++
	rec := &userRecord{
		user: models.User{
			ID:        s.nextUserID,
			Email:     email,
			FirstName: strings.TrimSpace(firstName),
			LastName:  strings.TrimSpace(lastName),
		},
		passwordHash: hash,
	}
	s.users[email] = rec
	return rec.user, nil
}

func (s *Store) Authenticate(email, password string) (models.User, error) {
	s.mu.RLock()
	rec, ok := s.users[normalizeEmail(email)]
	s.mu.RUnlock()
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return rec.user, nil
}

func (s *Store) CreateOrder(userID int64, req models.OrderRequest, now time.Time) Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextOrderID++
	o := &Order{
		ID:              s.nextOrderID,
		UserID:          userID,
		Items:           append([]models.OrderItem(nil), req.Items...),
		TotalAmount:     req.TotalAmount,
		ShippingAddress: req.ShippingAddress,
		Status:          OrderPending,
		PaymentStatus:   PaymentPending,
		CreatedAt:       now,
	}
	s.orders[o.ID] = o
	return *o
}

// Order returns the order if it belongs to userID.
func (s *Store) Order(orderID, userID int64) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok || o.UserID != userID {
		return Order{}, ErrOrderNotFound
	}
	return *o, nil
}

func (s *Store) MarkPaid(orderID, userID int64, method, transactionID string) error {
	return s.update(orderID, userID, func(o *Order) {
		o.Status = OrderConfirmed
		o.PaymentStatus = PaymentPaid
		o.PaymentMethod = method
		o.TransactionID = transactionID
	})
}

func (s *Store) MarkFailed(orderID, userID int64) error {
	return s.update(orderID, userID, func(o *Order) {
		o.Status = OrderPaymentFailed
		o.PaymentStatus = PaymentFailed
	})
}

func (s *Store) update(orderID, userID int64, fn func(o *Order)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.UserID != userID {
		return ErrOrderNotFound
	}
	fn(o)
	return nil
}
