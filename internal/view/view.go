// Package view projects storefront state to text. Nothing here owns state;
// every function renders what it is given.
package view

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"aerolite/internal/cart"
	"aerolite/internal/checkout"
	"aerolite/internal/models"
)

var printer = message.NewPrinter(language.English)

// Price renders an amount in dollars with grouped thousands. Whole amounts
// carry no fraction digits; others are rounded to cents without going
// through a float.
func Price(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")
	out := sign + "$" + groupDigits(whole)
	if !d.IsInteger() {
		out += "." + frac
	}
	return out
}

// groupDigits inserts the locale's thousands separator into a run of digits.
func groupDigits(digits string) string {
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return digits
	}
	if n.IsInt64() {
		return printer.Sprintf("%d", n.Int64())
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func ProductGrid(w io.Writer, products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No aircraft match your search.")
		return
	}
	for _, p := range products {
		fmt.Fprintf(w, "[%d] %s (%s)\n", p.ID, p.Name, p.Category)
		if p.Description != "" {
			fmt.Fprintf(w, "    %s\n", p.Description)
		}
		fmt.Fprintf(w, "    %s  -> add id=%d\n", Price(p.Price), p.ID)
	}
}

// Header is the navigation bar: cart badge and auth buttons.
func Header(w io.Writer, items []models.CartItem, user *models.User) {
	primary, secondary := AuthButtons(user)
	fmt.Fprintf(w, "Hangar (%d) | %s | %s\n", cart.Count(items), primary, secondary)
}

// AuthButtons returns the two auth button labels.
func AuthButtons(user *models.User) (string, string) {
	if user == nil {
		return "Login", "Register"
	}
	return user.FirstName, "Logout"
}

func Cart(w io.Writer, items []models.CartItem) {
	fmt.Fprintln(w, "== Your Hangar ==")
	if len(items) == 0 {
		fmt.Fprintln(w, "Your hangar is empty")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t[-] %d [+]\tid=%d\n", it.Name, Price(it.Price), it.Quantity, it.ProductID)
	}
	tw.Flush()
	fmt.Fprintf(w, "Total: %s\n", Price(cart.Total(items)))
}

func CheckoutSummary(w io.Writer, items []models.CartItem) {
	fmt.Fprintln(w, "== Checkout ==")
	for _, it := range items {
		fmt.Fprintf(w, "%s x%d - %s\n", it.Name, it.Quantity, Price(it.Subtotal()))
	}
	fmt.Fprintf(w, "Total: %s\n", Price(cart.Total(items)))
}

func PaymentSummary(w io.Writer, items []models.CartItem, control checkout.SubmitControl) {
	fmt.Fprintln(w, "== Payment ==")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		fmt.Fprintf(tw, "%s x%d\t%s\n", it.Name, it.Quantity, Price(it.Subtotal()))
	}
	tw.Flush()
	fmt.Fprintf(w, "Total: %s\n", Price(cart.Total(items)))
	fmt.Fprintln(w, Button(control.Label, control.Disabled))
}

// Button renders a submit control, greyed out as "(...)" when disabled.
func Button(label string, disabled bool) string {
	if disabled {
		return "(" + label + ")"
	}
	return "[" + label + "]"
}

// Flow renders whichever checkout modal the snapshot has open.
func Flow(w io.Writer, s checkout.Snapshot) {
	switch s.State.Modal() {
	case "cart":
		Cart(w, s.Items)
	case "checkout":
		CheckoutSummary(w, s.Items)
		if s.State.Awaiting() {
			fmt.Fprintln(w, "Placing order...")
		}
	case "payment":
		if s.OrderID != 0 {
			fmt.Fprintf(w, "Order #%d\n", s.OrderID)
		}
		PaymentSummary(w, s.Items, s.Control)
	}
}

// AuthModal renders the login/register form tabs with the active one marked.
func AuthModal(w io.Writer, tab string) {
	tabs := []string{"login", "register"}
	out := make([]string, len(tabs))
	for i, t := range tabs {
		if t == tab {
			out[i] = "*" + t + "*"
		} else {
			out[i] = t
		}
	}
	fmt.Fprintf(w, "== Account == %s\n", strings.Join(out, " | "))
}
