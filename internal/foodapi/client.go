// Package foodapi is a read-only client for the remote food catalog.
//
// The catalog is unauthenticated and GET-only. Every failure (network,
// status, payload) is logged and reported as an empty result; nothing is
// retried.
package foodapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/vladimiradmaev/calorie-tracker/internal/config"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
)

const maxBodySize = 4 << 20

// Hit is one search result: a food plus the serving the catalog suggests.
type Hit struct {
	Score           float64        `json:"score"`
	Food            *domain.Food   `json:"food"`
	Serving         domain.Serving `json:"serving"`
	ServingQuantity float64        `json:"serving_quantity"`
}

type Client struct {
	baseURL    string
	language   string
	country    string
	httpClient *http.Client
	log        *slog.Logger
}

func New(cfg config.FoodAPIConfig) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(cfg config.FoodAPIConfig, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		language:   cfg.Language,
		country:    cfg.Country,
		httpClient: httpClient,
		log:        logger.Component("foodapi"),
	}
}

// Search queries the catalog by name. Items without a product id or name
// are dropped.
func (c *Client) Search(ctx context.Context, query string) []Hit {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	params := url.Values{"query": {query}}
	if c.language != "" {
		params.Set("language", c.language)
	}
	if c.country != "" {
		params.Set("country", c.country)
	}

	body, ok := c.get(ctx, "/search?"+params.Encode())
	if !ok {
		return nil
	}

	var page struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		c.log.Warn("Search response has unexpected shape", "query", query, "error", err)
		return nil
	}

	hits := make([]Hit, 0, len(page.Items))
	for _, raw := range page.Items {
		it, err := decodeItem(raw)
		if err != nil {
			c.log.Debug("Skipping search item", "query", query, "error", err)
			continue
		}
		hits = append(hits, it.hit())
	}
	return hits
}

// Detail fetches one food by product id. ok is false on any failure.
func (c *Client) Detail(ctx context.Context, productID string) (*domain.Food, bool) {
	if strings.TrimSpace(productID) == "" {
		return nil, false
	}
	body, ok := c.get(ctx, "/foods/"+url.PathEscape(productID))
	if !ok {
		return nil, false
	}
	it, err := decodeItem(body)
	if err != nil {
		c.log.Warn("Detail response has unexpected shape", "product_id", productID, "error", err)
		return nil, false
	}
	return it.food(), true
}

func (c *Client) get(ctx context.Context, path string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		c.log.Error("Failed to build request", "path", path, "error", err)
		return nil, false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("Food catalog request failed", "path", path, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("Food catalog returned an error status", "path", path, "status", resp.StatusCode)
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.log.Warn("Failed to read food catalog response", "path", path, "error", err)
		return nil, false
	}
	return body, true
}
