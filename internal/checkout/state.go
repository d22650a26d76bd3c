package checkout

import "errors"

type State string

const (
	StateIdle                  State = "IDLE"
	StateCartOpen              State = "CART_OPEN"
	StateCheckoutOpen          State = "CHECKOUT_OPEN"
	StateAwaitingOrderCreation State = "AWAITING_ORDER_CREATION"
	StatePaymentOpen           State = "PAYMENT_OPEN"
	StateAwaitingPaymentResult State = "AWAITING_PAYMENT_RESULT"
	StateCompleted             State = "COMPLETED"
)

var (
	ErrIllegalTransition = errors.New("illegal transition of checkout state")
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrLoginRequired     = errors.New("login required to checkout")
)

var transitions = map[State][]State{
	StateIdle:                  {StateCartOpen, StateCheckoutOpen},
	StateCompleted:             {StateIdle, StateCartOpen, StateCheckoutOpen},
	StateCartOpen:              {StateIdle, StateCheckoutOpen},
	StateCheckoutOpen:          {StateIdle, StateCartOpen, StateAwaitingOrderCreation},
	StateAwaitingOrderCreation: {StateCheckoutOpen, StatePaymentOpen, StateCompleted},
	StatePaymentOpen:           {StateIdle, StateAwaitingPaymentResult},
	StateAwaitingPaymentResult: {StatePaymentOpen, StateCompleted},
}

func CanTransitionTo(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Awaiting reports whether a backend call is in flight in this state.
func (s State) Awaiting() bool {
	return s == StateAwaitingOrderCreation || s == StateAwaitingPaymentResult
}

// Modal is the dialog shown for the state, or "" when none is open.
func (s State) Modal() string {
	switch s {
	case StateCartOpen:
		return "cart"
	case StateCheckoutOpen, StateAwaitingOrderCreation:
		return "checkout"
	case StatePaymentOpen, StateAwaitingPaymentResult:
		return "payment"
	default:
		return ""
	}
}

func (s State) String() string {
	return string(s)
}
