// Package market implements ports.MarketClient: a one-shot HTTP fetch of the
// catalog snapshot, grounded on the original's db.py MarketDB. No
// third-party HTTP client appears anywhere in the corpus, so this component
// is one of the few built directly on net/http (see DESIGN.md).
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wazoplugind/wazo-plugind/internal/domain/market"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

// Client implements ports.MarketClient against the configured catalog
// service endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     ports.Logger
}

func New(cfg ports.MarketConfig, logger ports.Logger) *Client {
	scheme := "http"
	if cfg.HTTPS {
		scheme = "https"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    fmt.Sprintf("%s://%s:%d%s", scheme, cfg.Host, cfg.Port, cfg.Prefix),
		logger:     logger,
	}
}

type catalogResponse struct {
	Items []market.Entry `json:"items"`
}

func (c *Client) Fetch(ctx context.Context) ([]market.Entry, error) {
	url := c.baseURL + "/plugins"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error(ctx, "market catalog fetch failed", "url", url, "error", err)
		}
		return nil, fmt.Errorf("market catalog unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market catalog returned status %d", resp.StatusCode)
	}

	var body catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding market catalog response: %w", err)
	}
	return body.Items, nil
}

var _ ports.MarketClient = (*Client)(nil)
