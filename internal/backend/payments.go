package backend

import (
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"aerolite/internal/models"
)

const msgDeclined = "Payment declined: Insufficient funds"

// Approver decides whether a charge that passed validation goes through.
type Approver interface {
	Approve(amount decimal.Decimal) bool
}

// RandomApprover approves the given share of charges.
type RandomApprover struct {
	mu   sync.Mutex
	rate float64
	rnd  *rand.Rand
}

func NewRandomApprover(rate float64, seed int64) *RandomApprover {
	return &RandomApprover{rate: rate, rnd: rand.New(rand.NewSource(seed))}
}

func (r *RandomApprover) Approve(decimal.Decimal) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64() < r.rate
}

type chargeResult struct {
	Success       bool
	TransactionID string
	Error         string
}

func charge(approver Approver, data models.PaymentData, amount decimal.Decimal) chargeResult {
	method := data.Method
	if method == "" {
		method = "card"
	}
	slog.Info("Processing payment", "amount", amount.StringFixed(2), "method", method)

	if len(strings.ReplaceAll(data.CardNumber, " ", "")) != 16 {
		return chargeResult{Error: "Invalid card number"}
	}
	if data.ExpiryDate == "" {
		return chargeResult{Error: "Expiry date required"}
	}
	if data.CVC == "" {
		return chargeResult{Error: "CVC required"}
	}

	if !approver.Approve(amount) {
		return chargeResult{Error: msgDeclined}
	}
	return chargeResult{Success: true, TransactionID: newTransactionID()}
}

func newTransactionID() string {
	id := uuid.New()
	return "txn_" + strings.ReplaceAll(id.String(), "-", "")[:24]
}
