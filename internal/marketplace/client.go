// internal/marketplace/client.go
package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/restockd/restockd/internal/config"
)

// Client talks to the marketplace selling API: order headers, order line
// items and inventory summaries. It handles NextToken pagination and retries
// throttled (429) responses with a fixed backoff, so callers see complete
// result sets.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	marketplaceID string
	retryBackoff  time.Duration
	maxRetries    int
}

// NewClient builds a Client authenticated via the client-credentials grant.
func NewClient(cfg config.MarketplaceConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("marketplace base url must be provided")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("marketplace credentials must be provided")
	}

	oauthCfg := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}

	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = 2 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}

	return &Client{
		httpClient:    oauthCfg.Client(context.Background()),
		baseURL:       cfg.BaseURL,
		marketplaceID: cfg.MarketplaceID,
		retryBackoff:  retryBackoff,
		maxRetries:    maxRetries,
	}, nil
}

// GetOrders returns all orders created after the given date, following
// NextToken pagination until the marketplace reports no further pages.
func (c *Client) GetOrders(ctx context.Context, createdAfter time.Time) ([]Order, error) {
	var orders []Order
	nextToken := ""

	for {
		params := url.Values{}
		params.Set("MarketplaceIds", c.marketplaceID)
		if nextToken == "" {
			params.Set("CreatedAfter", createdAfter.UTC().Format(time.RFC3339))
		} else {
			params.Set("NextToken", nextToken)
		}

		var res ordersResponse
		if err := c.getJSON(ctx, "/orders/v0/orders", params, &res); err != nil {
			return nil, fmt.Errorf("list orders: %w", err)
		}

		orders = append(orders, res.Payload.Orders...)
		nextToken = res.Payload.NextToken
		if nextToken == "" {
			break
		}
		log.Debug().Int("orders", len(orders)).Msg("following orders pagination token")
	}

	return orders, nil
}

// GetOrderItems returns the line items of one order.
func (c *Client) GetOrderItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	var res orderItemsResponse
	path := fmt.Sprintf("/orders/v0/orders/%s/orderItems", url.PathEscape(orderID))
	if err := c.getJSON(ctx, path, url.Values{}, &res); err != nil {
		return nil, fmt.Errorf("order items for %s: %w", orderID, err)
	}
	return res.Payload.OrderItems, nil
}

// GetInventorySummaries returns the current on-hand quantity for every SKU in
// the marketplace, following nextToken pagination.
func (c *Client) GetInventorySummaries(ctx context.Context) ([]InventorySummary, error) {
	var summaries []InventorySummary
	nextToken := ""

	for {
		params := url.Values{}
		params.Set("marketplaceIds", c.marketplaceID)
		if nextToken != "" {
			params.Set("nextToken", nextToken)
		}

		var res inventoryResponse
		if err := c.getJSON(ctx, "/fba/inventory/v1/summaries", params, &res); err != nil {
			return nil, fmt.Errorf("inventory summaries: %w", err)
		}

		summaries = append(summaries, res.Payload.InventorySummaries...)
		nextToken = res.Payload.NextToken
		if nextToken == "" {
			break
		}
	}

	return summaries, nil
}

// getJSON performs a GET against the API, retrying throttled responses with a
// fixed backoff up to maxRetries attempts.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if attempt >= c.maxRetries {
				return fmt.Errorf("GET %s: throttled after %d attempts", path, attempt+1)
			}
			log.Warn().
				Str("path", path).
				Int("attempt", attempt+1).
				Dur("backoff", c.retryBackoff).
				Msg("request throttled, backing off")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryBackoff):
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("GET %s: unexpected status %d: %s", path, resp.StatusCode, body)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("GET %s: decode response: %w", path, err)
		}
		return nil
	}
}
