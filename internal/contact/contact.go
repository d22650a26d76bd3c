// Package contact handles the contact form. Delivery is simulated: the
// message is held for a fixed delay and then reported as sent.
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"aerolite/internal/models"
)

type Form struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Subject    string
	Budget     string
	Message    string
	Newsletter bool
	Urgent     bool
}

type Notifier interface {
	Success(message string)
	Error(message string)
}

const (
	labelSend    = "Send Message"
	labelSending = "Sending..."
)

type Control struct {
	Label    string
	Disabled bool
}

type Desk struct {
	delay    time.Duration
	notifier Notifier

	mu          sync.Mutex
	control     Control
	successOpen bool
	lastRef     string
}

func NewDesk(delay time.Duration, notifier Notifier) *Desk {
	return &Desk{
		delay:    delay,
		notifier: notifier,
		control:  Control{Label: labelSend},
	}
}

func (d *Desk) Control() Control {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.control
}

// SuccessOpen reports whether the "message sent" modal is showing.
func (d *Desk) SuccessOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.successOpen
}

func (d *Desk) CloseSuccess() {
	d.mu.Lock()
	d.successOpen = false
	d.mu.Unlock()
}

// LastReference is the reference of the most recently sent message.
func (d *Desk) LastReference() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastRef
}

// Submit validates the form and simulates sending it. It blocks for the
// configured delay unless ctx is cancelled first.
func (d *Desk) Submit(ctx context.Context, form Form) error {
	if missingRequired(form) {
		d.notifier.Error("Please fill in all required fields")
		return &models.ValidationError{Field: "contact", Message: "Please fill in all required fields"}
	}

	d.setControl(Control{Label: labelSending, Disabled: true})
	defer d.setControl(Control{Label: labelSend})

	timer := time.NewTimer(d.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		slog.Error("Contact form error", "error", ctx.Err())
		d.notifier.Error("Failed to send message. Please try again.")
		return fmt.Errorf("send contact message: %w", ctx.Err())
	case <-timer.C:
	}

	ref := uuid.NewString()
	slog.Info("Contact message sent", "reference", ref, "subject", form.Subject, "urgent", form.Urgent, "newsletter", form.Newsletter)

	d.mu.Lock()
	d.successOpen = true
	d.lastRef = ref
	d.mu.Unlock()

	urgency := ""
	if form.Urgent {
		urgency = " urgently"
	}
	d.notifier.Success(fmt.Sprintf("Message sent%s! We'll contact you soon.", urgency))
	return nil
}

func (d *Desk) setControl(c Control) {
	d.mu.Lock()
	d.control = c
	d.mu.Unlock()
}

func missingRequired(f Form) bool {
	for _, v := range []string{f.FirstName, f.LastName, f.Email, f.Subject, f.Message} {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
