// Package paygate is a thin client for the payment provider's verification
// API. In mock mode every reference verifies as settled, which keeps local
// development and tests off the network.
package paygate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client represents a payment provider API client
type Client struct {
	BaseURL string
	APIKey  string
	MockAPI bool
	client  *http.Client
}

// VerificationResponse represents a verification result from the provider
type VerificationResponse struct {
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"paidAt"`
}

// NewClient creates a new payment provider client
func NewClient(baseURL, apiKey string, mockAPI bool) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		MockAPI: mockAPI,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyPayment checks a transaction reference with the provider and reports
// whether it settled.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (*VerificationResponse, error) {
	if reference == "" {
		return nil, errors.New("reference is required")
	}
	if c.MockAPI {
		return &VerificationResponse{
			Reference: reference,
			Status:    "SUCCESS",
			PaidAt:    time.Now(),
		}, nil
	}

	url := fmt.Sprintf("%s/v1/transactions/%s/verify", c.BaseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d for reference %s", resp.StatusCode, reference)
	}

	var verification VerificationResponse
	if err := json.NewDecoder(resp.Body).Decode(&verification); err != nil {
		return nil, fmt.Errorf("failed to decode verification response: %w", err)
	}
	return &verification, nil
}

// Settled reports whether the verification confirms settlement.
func (v *VerificationResponse) Settled() bool {
	return v.Status == "SUCCESS" || v.Status == "PAID"
}
