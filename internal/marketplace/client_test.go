// internal/marketplace/client_test.go
package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/restockd/restockd/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"bearer","expires_in":3600}`)
	})
	mux.Handle("/", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.MarketplaceConfig{
		BaseURL:       srv.URL,
		TokenURL:      srv.URL + "/token",
		ClientID:      "id",
		ClientSecret:  "secret",
		MarketplaceID: "MKT1",
		RetryBackoff:  10 * time.Millisecond,
		MaxRetries:    3,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(config.MarketplaceConfig{BaseURL: "https://api.example.com"})
	assert.Error(t, err)

	_, err = NewClient(config.MarketplaceConfig{ClientID: "id", ClientSecret: "secret"})
	assert.Error(t, err)
}

func TestGetOrdersPagination(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("NextToken") == "page2" {
			fmt.Fprint(w, `{"payload":{"orders":[{"orderId":"o3","purchaseDate":"2026-02-02T10:00:00Z"}]}}`)
			return
		}
		assert.NotEmpty(t, r.URL.Query().Get("CreatedAfter"))
		assert.Equal(t, "MKT1", r.URL.Query().Get("MarketplaceIds"))
		fmt.Fprint(w, `{"payload":{"orders":[{"orderId":"o1"},{"orderId":"o2"}],"nextToken":"page2"}}`)
	}))

	orders, err := client.GetOrders(context.Background(), time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "o1", orders[0].OrderID)
	assert.Equal(t, "o3", orders[2].OrderID)
}

func TestGetOrderItems(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/v0/orders/o-17/orderItems", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"payload":{"orderItems":[{"sellerSku":"A-100","quantityOrdered":2}]}}`)
	}))

	items, err := client.GetOrderItems(context.Background(), "o-17")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A-100", items[0].SKU)
	assert.Equal(t, 2, items[0].QuantityOrdered)
}

func TestThrottledRequestsAreRetried(t *testing.T) {
	attempts := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"payload":{"inventorySummaries":[{"sellerSku":"A-100","totalQuantity":12}]}}`)
	}))

	summaries, err := client.GetInventorySummaries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	require.Len(t, summaries, 1)
	assert.Equal(t, 12, summaries[0].TotalQuantity)
}

func TestThrottlingGivesUpAfterMaxRetries(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.GetInventorySummaries(context.Background())
	assert.ErrorContains(t, err, "throttled")
}

func TestUnexpectedStatusIsAnError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.GetOrders(context.Background(), time.Now())
	assert.ErrorContains(t, err, "unexpected status 500")
}
