// Package storage persists the client-side session state: the cart snapshot
// and the bearer token. It is the equivalent of the browser's localStorage.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"aerolite/internal/models"
)

const (
	CartKey  = "aerolite_cart"
	TokenKey = "aerolite_token"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is a flat key-value store. Writes are synchronous.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

func SaveCart(ctx context.Context, s Store, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	return s.Set(ctx, CartKey, data)
}

// LoadCart returns the persisted cart. A missing or unreadable snapshot is
// an empty cart.
func LoadCart(ctx context.Context, s Store) ([]models.CartItem, error) {
	data, err := s.Get(ctx, CartKey)
	if errors.Is(err, ErrNotFound) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("Discarding unreadable cart snapshot", "error", err)
		return []models.CartItem{}, nil
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

func SaveToken(ctx context.Context, s Store, token string) error {
	return s.Set(ctx, TokenKey, []byte(token))
}

// LoadToken returns "" when no token is stored.
func LoadToken(ctx context.Context, s Store) (string, error) {
	data, err := s.Get(ctx, TokenKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func ClearToken(ctx context.Context, s Store) error {
	return s.Remove(ctx, TokenKey)
}
