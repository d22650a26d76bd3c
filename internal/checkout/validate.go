package checkout

import (
	"strings"
	"unicode"

	"aerolite/internal/models"
)

type CheckoutForm struct {
	FullName string
	Email    string
	Address  string
}

type PaymentForm struct {
	Method         string
	CardNumber     string
	ExpiryDate     string
	CVC            string
	CardholderName string
}

const (
	msgAddressRequired = "Please enter delivery address"
	msgCardNumber      = "Please enter a valid 16-digit card number"
	msgExpiry          = "Please enter expiry date"
	msgCVC             = "Please enter a valid 3-digit CVC"
	msgCardholder      = "Please enter cardholder name"
)

func validateCheckout(form CheckoutForm) *models.ValidationError {
	if strings.TrimSpace(form.Address) == "" {
		return &models.ValidationError{Field: "address", Message: msgAddressRequired}
	}
	return nil
}

// validatePayment returns the first failing check in display order, with the
// whitespace-stripped payment data.
func validatePayment(form PaymentForm) (models.PaymentData, *models.ValidationError) {
	data := models.PaymentData{
		Method:         form.Method,
		CardNumber:     stripSpaces(form.CardNumber),
		ExpiryDate:     form.ExpiryDate,
		CVC:            form.CVC,
		CardholderName: form.CardholderName,
	}
	if data.Method == "" {
		data.Method = "card"
	}

	switch {
	case len(data.CardNumber) != 16 || !digitsOnly(data.CardNumber):
		return data, &models.ValidationError{Field: "cardNumber", Message: msgCardNumber}
	case data.ExpiryDate == "":
		return data, &models.ValidationError{Field: "expiryDate", Message: msgExpiry}
	case len(data.CVC) != 3 || !digitsOnly(data.CVC):
		return data, &models.ValidationError{Field: "cvc", Message: msgCVC}
	case data.CardholderName == "":
		return data, &models.ValidationError{Field: "cardholderName", Message: msgCardholder}
	}
	return data, nil
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
