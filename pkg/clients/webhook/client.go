package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/vendsim/internal/config"
	"github.com/mamadbah2/vendsim/internal/domain/models"
)

// Client pushes day summaries to an external consumer.
type Client interface {
	NotifyDaySummary(ctx context.Context, result models.DayResult) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client using the provided configuration values.
func NewClient(cfg config.WebhookConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.AuthToken != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AuthToken))
	}

	return &APIClient{
		httpClient: restyClient,
		url:        cfg.URL,
	}
}

// apiError represents an error payload returned by the webhook consumer.
type apiError struct {
	Error string `json:"error"`
}

// NotifyDaySummary posts the committed day result as JSON.
func (c *APIClient) NotifyDaySummary(ctx context.Context, result models.DayResult) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(result).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send day summary: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Error
		if message == "" {
			message = resp.Status()
		}
		return fmt.Errorf("webhook error: code=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}
