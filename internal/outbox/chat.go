package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/withu0/pishatto-engine/internal/config"
	"github.com/withu0/pishatto-engine/pkg/clients"
)

type ChatClientI interface {
	EnsureGroup(ctx context.Context, payload ChatEnsurePayload) error
}

// ChatClient asks the chat service to open a group for a matched reservation.
// The chat service treats the call as idempotent per reservation.
type ChatClient struct {
	url    string
	client clients.HTTPClientI
}

func NewChatClient(cfg *config.Config, client clients.HTTPClientI) *ChatClient {
	return &ChatClient{
		url:    cfg.ChatAddress,
		client: client,
	}
}

func (c *ChatClient) EnsureGroup(ctx context.Context, payload ChatEnsurePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal chat group request: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	statusCode, _, err := c.client.Post(c.url+"/api/groups", headers, body)
	if err != nil {
		return fmt.Errorf("chat service request failed: %w", err)
	}
	if statusCode != http.StatusOK && statusCode != http.StatusCreated {
		return fmt.Errorf("chat service returned unexpected status: %d", statusCode)
	}
	return nil
}
