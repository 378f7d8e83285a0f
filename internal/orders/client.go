package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"checkbox-fiscalizer/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured  = errors.New("orders api is not configured")
	ErrMissingOrderID = errors.New("order id is required")
)

// Client reads orders from the commerce platform by id, for webhook calls
// that carry only an order reference instead of the full order body.
type Client struct {
	http    *resty.Client
	logger  *zap.Logger
	enabled bool
}

func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	logger = logger.Named("orders")

	baseURL := strings.TrimSpace(cfg.OrdersAPIURL)
	if baseURL == "" {
		logger.Warn("orders api is not configured; order lookup by id is disabled")
		return &Client{logger: logger}
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	if cfg.OrdersAPIKey != "" {
		httpClient.SetHeader("Authorization", cfg.OrdersAPIKey)
	}

	return &Client{
		http:    httpClient,
		logger:  logger,
		enabled: true,
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

func (c *Client) Fetch(ctx context.Context, orderID string) (Order, error) {
	if !c.Enabled() {
		return Order{}, ErrNotConfigured
	}
	if strings.TrimSpace(orderID) == "" {
		return Order{}, ErrMissingOrderID
	}

	var envelope orderEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&envelope).
		Get(fmt.Sprintf("/orders/%s", orderID))
	if err != nil {
		return Order{}, fmt.Errorf("orders request: %w", err)
	}
	if resp.IsError() {
		return Order{}, fmt.Errorf("orders api error: %s: %s", resp.Status(), strings.TrimSpace(resp.String()))
	}

	return envelope.Order, nil
}
