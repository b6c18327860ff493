// Package processor talks to the external payment processor: synchronous
// payout submission and the background reconciliation of scheduled and
// stuck payouts. Webhook verification lives with the HTTP handlers.
package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/withu0/pishatto-engine/internal/config"
	"github.com/withu0/pishatto-engine/pkg/clients"
)

var ErrProcessor = errors.New("payment processor rejected the request")

type Payout struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type Account struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type payoutRequest struct {
	AccountRef string            `json:"account_ref"`
	Amount     int64             `json:"amount"`
	Currency   string            `json:"currency"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type Client struct {
	url    string
	client clients.HTTPClientI
}

func NewClient(cfg *config.Config, client clients.HTTPClientI) *Client {
	return &Client{
		url:    cfg.ProcessorAddress,
		client: client,
	}
}

// CreatePayout submits one payout. Transport errors are retried with a short
// backoff; a non-2xx answer is a rejection and is returned as ErrProcessor
// immediately so the caller can roll back.
func (c *Client) CreatePayout(ctx context.Context, accountRef string, amount int64, currency string, metadata map[string]string) (*Payout, error) {
	body, err := json.Marshal(payoutRequest{
		AccountRef: accountRef,
		Amount:     amount,
		Currency:   currency,
		Metadata:   metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("can't marshal payout request: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	var payout Payout
	backoff := retry.WithMaxRetries(3, retry.NewConstant(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		status, respBody, err := c.client.Post(c.url+"/v1/payouts", headers, body)
		if err != nil {
			zap.L().Warn("processor request failed, retrying", zap.Error(err))
			return retry.RetryableError(err)
		}
		if status < 200 || status >= 300 {
			return fmt.Errorf("%w: status %d: %s", ErrProcessor, status, respBody)
		}
		if err := json.Unmarshal(respBody, &payout); err != nil {
			return fmt.Errorf("can't parse processor response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

func (c *Client) RetrieveAccount(ctx context.Context, accountRef string) (*Account, error) {
	status, respBody, _, err := c.client.Get(c.url+"/v1/accounts/"+accountRef, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrProcessor, status, respBody)
	}
	var account Account
	if err := json.Unmarshal(respBody, &account); err != nil {
		return nil, fmt.Errorf("can't parse processor response: %w", err)
	}
	return &account, nil
}
