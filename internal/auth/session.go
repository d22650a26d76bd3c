// Package auth holds the signed-in user on the client and the bearer-token
// checks used by the backend.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"aerolite/internal/models"
	"aerolite/internal/services"
	"aerolite/internal/storage"
)

type Client interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
}

type Notifier interface {
	Success(message string)
	Error(message string)
}

// View is the part of the UI that depends on the session.
type View interface {
	CloseAuthModal()
	RenderAuth(user *models.User)
}

type RegisterForm struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type LoginForm struct {
	Email    string
	Password string
}

const msgMissingFields = "Please fill in all fields"

type Session struct {
	client   Client
	store    storage.Store
	notifier Notifier
	view     View
	now      func() time.Time

	mu    sync.RWMutex
	user  *models.User
	token string
}

func NewSession(client Client, store storage.Store, notifier Notifier, view View) *Session {
	return &Session{
		client:   client,
		store:    store,
		notifier: notifier,
		view:     view,
		now:      time.Now,
	}
}

// Restore rebuilds the session from the persisted token. A token that does
// not carry a readable, unexpired profile is dropped so that the UI and the
// credentials sent to the backend never disagree.
func (s *Session) Restore(ctx context.Context) error {
	token, err := storage.LoadToken(ctx, s.store)
	if err != nil {
		return fmt.Errorf("restore session failed: %w", err)
	}
	if token == "" {
		s.view.RenderAuth(nil)
		return nil
	}

	user, err := UserFromToken(token, s.now())
	if err != nil {
		slog.Warn("Discarding persisted token", "error", err)
		if err := storage.ClearToken(ctx, s.store); err != nil {
			slog.Error("Failed to clear stale token", "error", err)
		}
		s.set(nil, "")
		s.view.RenderAuth(nil)
		return nil
	}

	s.set(user, token)
	slog.Info("Session restored", "email", user.Email)
	s.view.RenderAuth(user)
	return nil
}

func (s *Session) Register(ctx context.Context, form RegisterForm) error {
	if form.FirstName == "" || form.LastName == "" || form.Email == "" || form.Password == "" {
		s.notifier.Error(msgMissingFields)
		return &models.ValidationError{Field: "register", Message: msgMissingFields}
	}

	resp, err := s.client.Register(ctx, models.RegisterRequest{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
	})
	if err != nil {
		s.fail("Registration", err, "Registration failed")
		return err
	}

	return s.establish(ctx, resp, "Account created successfully!")
}

func (s *Session) Login(ctx context.Context, form LoginForm) error {
	if form.Email == "" || form.Password == "" {
		s.notifier.Error(msgMissingFields)
		return &models.ValidationError{Field: "login", Message: msgMissingFields}
	}

	resp, err := s.client.Login(ctx, models.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		s.fail("Login", err, "Login failed")
		return err
	}

	return s.establish(ctx, resp, "Welcome back!")
}

func (s *Session) establish(ctx context.Context, resp *models.AuthResponse, welcome string) error {
	if resp.AccessToken == "" || resp.User == nil {
		s.notifier.Error("Unexpected response from server")
		return errors.New("auth response without token or user")
	}

	if err := storage.SaveToken(ctx, s.store, resp.AccessToken); err != nil {
		slog.Error("Failed to persist token", "error", err)
	}
	s.set(resp.User, resp.AccessToken)

	s.view.CloseAuthModal()
	s.notifier.Success(welcome)
	s.view.RenderAuth(resp.User)
	return nil
}

func (s *Session) fail(op string, err error, fallback string) {
	if errors.Is(err, services.ErrNetwork) {
		slog.Error(op+" error", "error", err)
		s.notifier.Error("Network error. Please try again.")
		return
	}
	slog.Warn(op+" rejected", "error", err)
	s.notifier.Error(services.MessageOr(err, fallback))
}

func (s *Session) Logout(ctx context.Context) {
	if err := storage.ClearToken(ctx, s.store); err != nil {
		slog.Error("Failed to clear token", "error", err)
	}
	s.set(nil, "")
	s.view.RenderAuth(nil)
	s.notifier.Success("Logged out successfully")
}

func (s *Session) set(user *models.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && strings.TrimSpace(s.token) != ""
}
