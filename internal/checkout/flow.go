// Package checkout drives the cart → checkout → payment → completion
// sequence as an explicit state machine with a single owner.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"aerolite/internal/models"
	"aerolite/internal/services"
	"aerolite/internal/telemetry"
)

type Cart interface {
	Items() []models.CartItem
	Empty() bool
	Total() decimal.Decimal
	Clear(ctx context.Context) error
}

type Session interface {
	Authenticated() bool
	Token() string
}

type Client interface {
	CreateOrder(ctx context.Context, token string, req models.OrderRequest) (*models.OrderResponse, error)
	ProcessPayment(ctx context.Context, token string, req models.PaymentRequest) (*models.PaymentResponse, error)
}

type Notifier interface {
	Success(message string)
	Error(message string)
}

// View receives a snapshot after every state change.
type View interface {
	RenderFlow(s Snapshot)
}

const (
	labelCompletePayment = "Complete Payment"
	labelProcessing      = "Processing Payment..."
)

// SubmitControl is the payment form's submit button.
type SubmitControl struct {
	Label    string
	Disabled bool
}

type Snapshot struct {
	State   State
	OrderID int64
	Items   []models.CartItem
	Total   decimal.Decimal
	Control SubmitControl
}

type Flow struct {
	cart     Cart
	session  Session
	client   Client
	notifier Notifier
	view     View

	mu      sync.Mutex
	state   State
	orderID int64
	order   models.OrderRequest
	control SubmitControl
}

func NewFlow(cart Cart, session Session, client Client, notifier Notifier, view View) *Flow {
	return &Flow{
		cart:     cart,
		session:  session,
		client:   client,
		notifier: notifier,
		view:     view,
		state:    StateIdle,
		control:  SubmitControl{Label: labelCompletePayment},
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// OrderInProgress reports whether the cart is committed to checkout. The
// cart must not change until the flow is closed or completed.
func (f *Flow) OrderInProgress() bool {
	switch f.State() {
	case StateCheckoutOpen, StateAwaitingOrderCreation, StatePaymentOpen, StateAwaitingPaymentResult:
		return true
	}
	return false
}

// Order is the order sent to the backend for the current OrderID.
func (f *Flow) Order() models.OrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.order
	o.Items = append([]models.OrderItem(nil), f.order.Items...)
	return o
}

// OrderID is the backend order awaiting payment, or 0.
func (f *Flow) OrderID() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderID
}

func (f *Flow) SubmitControl() SubmitControl {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.control
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Flow) snapshotLocked() Snapshot {
	return Snapshot{
		State:   f.state,
		OrderID: f.orderID,
		Items:   f.cart.Items(),
		Total:   f.cart.Total(),
		Control: f.control,
	}
}

// transition moves to the next state if the table allows it, from one of
// the expected states when any are given.
func (f *Flow) transition(to State, from ...State) error {
	f.mu.Lock()
	cur := f.state
	if len(from) > 0 && !containsState(from, cur) {
		f.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, cur, to)
	}
	if cur != to && !CanTransitionTo(cur, to) {
		f.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, cur, to)
	}
	f.state = to
	snap := f.snapshotLocked()
	f.mu.Unlock()

	telemetry.CheckoutTransitionsTotal.WithLabelValues(string(to)).Inc()
	slog.Debug("Checkout transition", "from", cur, "to", to)
	f.view.RenderFlow(snap)
	return nil
}

func containsState(list []State, s State) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func (f *Flow) OpenCart() error {
	return f.transition(StateCartOpen)
}

// Close dismisses whichever modal is open. It is refused while a backend
// call is in flight.
func (f *Flow) Close() error {
	if f.State().Awaiting() {
		return fmt.Errorf("%w: request in flight", ErrIllegalTransition)
	}
	return f.transition(StateIdle)
}

// OpenCheckout shows the checkout form. An empty cart is reported to the
// user. ErrLoginRequired tells the caller to show the login form instead.
func (f *Flow) OpenCheckout() error {
	if f.cart.Empty() {
		f.notifier.Error("Your hangar is empty!")
		return ErrEmptyCart
	}
	if !f.session.Authenticated() {
		return ErrLoginRequired
	}
	return f.transition(StateCheckoutOpen)
}

// SubmitCheckout creates the backend order from the current cart.
func (f *Flow) SubmitCheckout(ctx context.Context, form CheckoutForm) error {
	if f.State() != StateCheckoutOpen {
		return fmt.Errorf("%w: checkout form is not open", ErrIllegalTransition)
	}
	if f.cart.Empty() {
		f.notifier.Error("Your hangar is empty!")
		return ErrEmptyCart
	}
	if vErr := validateCheckout(form); vErr != nil {
		f.notifier.Error(vErr.Message)
		return vErr
	}

	items := f.cart.Items()
	order := models.OrderRequest{
		Items:           make([]models.OrderItem, len(items)),
		TotalAmount:     f.cart.Total(),
		ShippingAddress: form.Address,
	}
	for i, it := range items {
		order.Items[i] = models.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}

	if err := f.transition(StateAwaitingOrderCreation, StateCheckoutOpen); err != nil {
		return err
	}

	resp, err := f.client.CreateOrder(ctx, f.session.Token(), order)
	if err != nil {
		slog.Error("Checkout error", "error", err)
		f.notifier.Error("Checkout failed. Please try again.")
		if tErr := f.transition(StateCheckoutOpen); tErr != nil {
			return errors.Join(err, tErr)
		}
		return err
	}

	f.mu.Lock()
	f.orderID = resp.OrderID
	f.order = order
	f.mu.Unlock()
	slog.Info("Order created", "order_id", resp.OrderID, "requires_payment", resp.RequiresPayment)

	if resp.RequiresPayment {
		return f.transition(StatePaymentOpen)
	}
	return f.complete(ctx, "")
}

// SubmitPayment charges the pending order. On failure the payment form stays
// open with the order kept so the user can try again.
func (f *Flow) SubmitPayment(ctx context.Context, form PaymentForm) error {
	if f.State() != StatePaymentOpen {
		return fmt.Errorf("%w: payment form is not open", ErrIllegalTransition)
	}
	data, vErr := validatePayment(form)
	if vErr != nil {
		f.notifier.Error(vErr.Message)
		return vErr
	}

	if err := f.transition(StateAwaitingPaymentResult, StatePaymentOpen); err != nil {
		return err
	}
	f.setControl(SubmitControl{Label: labelProcessing, Disabled: true})
	defer f.setControl(SubmitControl{Label: labelCompletePayment})

	f.mu.Lock()
	req := models.PaymentRequest{
		OrderID:     f.orderID,
		PaymentData: data,
		Amount:      f.order.TotalAmount,
	}
	f.mu.Unlock()
	resp, err := f.client.ProcessPayment(ctx, f.session.Token(), req)
	if err != nil {
		slog.Error("Payment error", "order_id", req.OrderID, "error", err)
		if errors.Is(err, services.ErrNetwork) {
			f.notifier.Error("Network error. Please try again.")
		} else {
			f.notifier.Error(services.MessageOr(err, "Payment failed. Please try again."))
		}
		if tErr := f.transition(StatePaymentOpen); tErr != nil {
			return errors.Join(err, tErr)
		}
		return err
	}

	f.notifier.Success("Payment successful! Order confirmed.")
	return f.complete(ctx, resp.TransactionID)
}

func (f *Flow) setControl(c SubmitControl) {
	f.mu.Lock()
	f.control = c
	snap := f.snapshotLocked()
	f.mu.Unlock()
	f.view.RenderFlow(snap)
}

// complete is the single terminal step for both the paid and the
// no-payment branches.
func (f *Flow) complete(ctx context.Context, transactionID string) error {
	clearErr := f.cart.Clear(ctx)

	message := "Order confirmed! Your aircraft will be delivered soon."
	if transactionID != "" {
		message += " Transaction ID: " + transactionID
	}
	f.notifier.Success(message)

	f.mu.Lock()
	f.orderID = 0
	f.order = models.OrderRequest{}
	f.mu.Unlock()

	if err := f.transition(StateCompleted); err != nil {
		return errors.Join(clearErr, err)
	}
	return clearErr
}
