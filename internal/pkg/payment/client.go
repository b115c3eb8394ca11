// internal/pkg/payment/client.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
)

var (
	ErrNotConfigured = errors.New("payment function not configured")
	ErrNoInitPoint   = errors.New("payment function returned no init_point")
)

// ProductRef is the product part of a payment line
type ProductRef struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Item is one {product, quantity} pair sent to the payment function
type Item struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
}

// CreatePaymentRequest is the create-payment function payload
type CreatePaymentRequest struct {
	OrderID string          `json:"orderId"`
	Items   []Item          `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

// CreatePaymentResponse carries the gateway redirect URL
type CreatePaymentResponse struct {
	ID        string `json:"id,omitempty"`
	InitPoint string `json:"init_point"`
}

// StatusError is returned when the function answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("payment function returned status %d: %s", e.StatusCode, e.Body)
}

// Client invokes the hosted create-payment function
type Client struct {
	httpClient *http.Client
	url        string
	key        string
}

// NewClient creates a payment client from configuration
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.External.Payment.Timeout},
		url:        cfg.External.Payment.FunctionURL,
		key:        cfg.External.Payment.FunctionKey,
	}
}

// CreatePayment asks the payment function for a checkout redirect
func (c *Client) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	if c.url == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.key)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment function request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read payment response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var out CreatePaymentResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to decode payment response: %w", err)
	}
	if out.InitPoint == "" {
		return nil, ErrNoInitPoint
	}
	return &out, nil
}
