// Package notify shows transient messages to the user. Each message is
// dismissed automatically after a fixed delay.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"aerolite/internal/telemetry"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

type Notification struct {
	ID      int
	Message string
	Kind    Kind
	ShownAt time.Time
}

type Notifier struct {
	mu      sync.Mutex
	out     io.Writer
	dismiss time.Duration
	nextID  int
	active  []Notification
	history []Notification
}

func New(out io.Writer, dismiss time.Duration) *Notifier {
	if out == nil {
		out = io.Discard
	}
	return &Notifier{out: out, dismiss: dismiss}
}

func (n *Notifier) Success(message string) { n.Show(message, Success) }

func (n *Notifier) Error(message string) { n.Show(message, Error) }

func (n *Notifier) Show(message string, kind Kind) {
	if kind == "" {
		kind = Success
	}

	n.mu.Lock()
	n.nextID++
	note := Notification{ID: n.nextID, Message: message, Kind: kind, ShownAt: time.Now()}
	n.active = append(n.active, note)
	n.history = append(n.history, note)
	n.mu.Unlock()

	telemetry.NotificationsTotal.WithLabelValues(string(kind)).Inc()
	slog.Debug("Notification shown", "kind", kind, "message", message)

	marker := "+"
	if kind == Error {
		marker = "!"
	}
	fmt.Fprintf(n.out, "[%s] %s\n", marker, message)

	if n.dismiss > 0 {
		time.AfterFunc(n.dismiss, func() { n.remove(note.ID) })
	}
}

func (n *Notifier) remove(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, note := range n.active {
		if note.ID == id {
			n.active = append(n.active[:i], n.active[i+1:]...)
			return
		}
	}
}

// Active returns the notifications that are still on screen.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.active...)
}

// History returns every notification shown in this session, oldest first.
func (n *Notifier) History() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.history...)
}

// Last returns the newest notification, if any.
func (n *Notifier) Last() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.history) == 0 {
		return Notification{}, false
	}
	return n.history[len(n.history)-1], true
}
