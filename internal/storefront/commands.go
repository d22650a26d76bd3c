package storefront

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"aerolite/internal/auth"
	"aerolite/internal/checkout"
	"aerolite/internal/contact"
	"aerolite/internal/view"
)

var (
	ErrQuit           = errors.New("quit")
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArgument    = errors.New("bad argument")
	ErrCartLocked     = errors.New("cart is locked while an order is in progress")
)

const msgCartLocked = "Finish or close checkout before changing your hangar"

var cartCommands = map[string]bool{"add": true, "qty": true, "remove": true}

// Command is one parsed input line: a verb followed by key=value fields.
type Command struct {
	Name   string
	Fields map[string]string
}

const helpText = `Commands (values with spaces go in double quotes):
  products [category=..] [search=..]   browse the catalog
  categories                           list categories
  add id=N                             add an aircraft to the hangar
  qty id=N delta=±N                    change a quantity
  remove id=N                          remove a line
  cart                                 open the hangar
  checkout                             proceed to checkout
  order name=.. email=.. address=..    place the order
  pay card=.. expiry=.. cvc=.. name=.. [method=card]
  close                                close the open dialog
  login email=.. password=..
  register first=.. last=.. email=.. password=..
  auth [tab=login|register]            open the account dialog
  logout
  contact first=.. last=.. email=.. subject=.. message=.. [phone=..] [budget=..] [urgent=true] [newsletter=true]
  notifications                        show messages on screen
  quit`

// Parse splits a line into a command. Double quotes group words into one
// value.
func Parse(line string) (Command, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return Command{}, err
	}
	if len(tokens) == 0 {
		return Command{}, nil
	}
	cmd := Command{Name: strings.ToLower(tokens[0]), Fields: make(map[string]string)}
	for _, tok := range tokens[1:] {
		key, value, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			return Command{}, fmt.Errorf("%w: %q is not key=value", ErrBadArgument, tok)
		}
		cmd.Fields[strings.ToLower(key)] = value
	}
	return cmd, nil
}

func tokenize(line string) ([]string, error) {
	var (
		tokens  []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case unicode.IsSpace(r) && !inQuote:
			if started {
				tokens = append(tokens, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("%w: unterminated quote", ErrBadArgument)
	}
	if started {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// Execute parses and runs one input line.
func (a *App) Execute(ctx context.Context, line string) error {
	cmd, err := Parse(line)
	if err != nil {
		return err
	}
	if cmd.Name == "" {
		return nil
	}
	return a.Run(ctx, cmd)
}

func (a *App) Run(ctx context.Context, cmd Command) error {
	f := cmd.Fields
	if cartCommands[cmd.Name] && a.flow.OrderInProgress() {
		a.notifier.Error(msgCartLocked)
		return ErrCartLocked
	}
	switch cmd.Name {
	case "help":
		fmt.Fprintln(a.out, helpText)
	case "quit", "exit":
		return ErrQuit
	case "products":
		a.ShowProducts(f["category"], f["search"])
	case "categories":
		fmt.Fprintln(a.out, strings.Join(a.catalog.Categories(), ", "))
	case "add":
		id, err := intField(f, "id")
		if err != nil {
			return err
		}
		return a.cart.Add(ctx, id)
	case "qty":
		id, err := intField(f, "id")
		if err != nil {
			return err
		}
		delta, err := strconv.Atoi(f["delta"])
		if err != nil {
			return fmt.Errorf("%w: delta", ErrBadArgument)
		}
		return a.cart.UpdateQuantity(ctx, id, delta)
	case "remove":
		id, err := intField(f, "id")
		if err != nil {
			return err
		}
		return a.cart.Remove(ctx, id)
	case "cart":
		return a.flow.OpenCart()
	case "checkout":
		return a.checkout()
	case "order":
		return a.flow.SubmitCheckout(ctx, checkout.CheckoutForm{
			FullName: f["name"],
			Email:    f["email"],
			Address:  f["address"],
		})
	case "pay":
		return a.flow.SubmitPayment(ctx, checkout.PaymentForm{
			Method:         f["method"],
			CardNumber:     f["card"],
			ExpiryDate:     f["expiry"],
			CVC:            f["cvc"],
			CardholderName: f["name"],
		})
	case "close":
		return a.closeDialog()
	case "auth":
		a.OpenAuthModal(f["tab"])
	case "login":
		a.OpenAuthModal("login")
		return a.session.Login(ctx, auth.LoginForm{Email: f["email"], Password: f["password"]})
	case "register":
		a.OpenAuthModal("register")
		return a.session.Register(ctx, auth.RegisterForm{
			FirstName: f["first"],
			LastName:  f["last"],
			Email:     f["email"],
			Password:  f["password"],
		})
	case "logout":
		a.session.Logout(ctx)
	case "contact":
		err := a.contact.Submit(ctx, contact.Form{
			FirstName:  f["first"],
			LastName:   f["last"],
			Email:      f["email"],
			Phone:      f["phone"],
			Subject:    f["subject"],
			Budget:     f["budget"],
			Message:    f["message"],
			Newsletter: f["newsletter"] == "true",
			Urgent:     f["urgent"] == "true",
		})
		if err == nil {
			fmt.Fprintln(a.out, "== Message Sent ==", view.Button("Close", false))
		}
		return err
	case "notifications":
		for _, n := range a.notifier.Active() {
			fmt.Fprintf(a.out, "%s: %s\n", n.Kind, n.Message)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Name)
	}
	return nil
}

// checkout opens the checkout form, or the login dialog when nobody is
// signed in.
func (a *App) checkout() error {
	err := a.flow.OpenCheckout()
	if errors.Is(err, checkout.ErrLoginRequired) {
		a.OpenAuthModal("login")
		return nil
	}
	return err
}

// closeDialog closes the topmost dialog: the account dialog, then the contact
// confirmation, then whatever the checkout flow has open.
func (a *App) closeDialog() error {
	if a.AuthTab() != "" {
		a.CloseAuthModal()
		return nil
	}
	if a.contact.SuccessOpen() {
		a.contact.CloseSuccess()
		return nil
	}
	return a.flow.Close()
}

func intField(f map[string]string, key string) (int64, error) {
	n, err := strconv.ParseInt(f[key], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrBadArgument, key)
	}
	return n, nil
}
