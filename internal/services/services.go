package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"aerolite/internal/config"
	"aerolite/internal/models"
	"aerolite/internal/telemetry"
)

// ServiceClient talks to the storefront backend. Calls are never retried.
type ServiceClient struct {
	baseURL string
	client  *http.Client
}

func NewServiceClient(cfg *config.Config) *ServiceClient {
	return &ServiceClient{
		baseURL: cfg.APIBaseURL,
		client: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: otelhttp.NewTransport(telemetry.InstrumentTransport(http.DefaultTransport)),
		},
	}
}

func (s *ServiceClient) doJSON(ctx context.Context, method, path, token string, body, target any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s response: %w", ErrNetwork, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp models.ErrorResponse
		_ = json.Unmarshal(data, &errResp)
		return &APIError{Status: resp.StatusCode, Message: errResp.Error}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s response failed: %w", path, err)
	}
	return nil
}

func (s *ServiceClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := s.doJSON(ctx, http.MethodPost, "/register", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *ServiceClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := s.doJSON(ctx, http.MethodPost, "/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *ServiceClient) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.doJSON(ctx, http.MethodGet, "/products", "", nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		return nil, errors.New("backend returned no product list")
	}
	return products, nil
}

func (s *ServiceClient) CreateOrder(ctx context.Context, token string, req models.OrderRequest) (*models.OrderResponse, error) {
	var resp models.OrderResponse
	if err := s.doJSON(ctx, http.MethodPost, "/orders", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProcessPayment charges an order. A response with success=false is returned
// as an *APIError even when the status code is 2xx.
func (s *ServiceClient) ProcessPayment(ctx context.Context, token string, req models.PaymentRequest) (*models.PaymentResponse, error) {
	var resp models.PaymentResponse
	if err := s.doJSON(ctx, http.MethodPost, "/process-payment", token, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusOK, Message: resp.Error}
	}
	return &resp, nil
}
