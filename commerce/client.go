// Package commerce is the client for the upstream commerce platform. The
// ledger core only ever touches it through narrow lookups; token handling and
// webhook registration live here so the core stays free of platform glue.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	extErrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// ClientOptions contains the configuration for the platform client
type ClientOptions struct {
	APIBaseURL   string // e.g. https://api.commerce.example/stores
	AuthBaseURL  string // token endpoint host
	StoreHash    string
	ClientID     string
	ClientSecret string
	AccessToken  string
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// Client talks to the upstream commerce platform's REST API
type Client struct {
	ClientOptions

	mu    sync.RWMutex
	token string
}

// NewClient returns a platform Client
func NewClient(option ClientOptions) (*Client, error) {
	if len(option.APIBaseURL) == 0 {
		return nil, fmt.Errorf("empty APIBaseURL is invalid")
	}
	if len(option.StoreHash) == 0 {
		return nil, fmt.Errorf("empty StoreHash is invalid")
	}
	if len(option.AccessToken) == 0 {
		return nil, fmt.Errorf("empty AccessToken is invalid")
	}
	if option.Logger == nil {
		return nil, fmt.Errorf("nil Logger is invalid")
	}
	if option.HTTPClient == nil {
		option.HTTPClient = &http.Client{
			Timeout: time.Second * 30,
		}
	}
	return &Client{
		ClientOptions: option,
		token:         option.AccessToken,
	}, nil
}

func (c *Client) storeURL(path string) string {
	return fmt.Sprintf("%s/%s%s", c.APIBaseURL, c.StoreHash, path)
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, extErrors.Wrap(err, "Cannot build platform request")
	}
	c.mu.RLock()
	req.Header.Set("X-Auth-Token", c.token)
	c.mu.RUnlock()
	req.Header.Set("X-Auth-Client", c.ClientID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, extErrors.Wrap(err, "Platform request failed")
	}
	defer res.Body.Close()

	data, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, extErrors.Wrap(err, "Cannot read platform response")
	}
	if res.StatusCode >= 400 {
		return res.StatusCode, fmt.Errorf("platform returned HTTP %d: %s", res.StatusCode, string(data))
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return res.StatusCode, extErrors.Wrap(err, "Cannot decode platform response")
		}
	}
	return res.StatusCode, nil
}

// FetchOrder returns the full order document, or nil if the platform has no
// order under that id
func (c *Client) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	status, err := c.do(ctx, http.MethodGet, c.storeURL("/v2/orders/"+orderID), nil, &order)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		c.Logger.Error("Unable to fetch order from platform",
			zap.String("OrderID", orderID),
			zap.Error(err),
		)
		return nil, extErrors.Wrap(err, "Cannot fetch order")
	}
	return &order, nil
}

// FetchAnyOrder returns an arbitrary existing order, or nil when the store
// has none. This only backs the diagnostic path.
func (c *Client) FetchAnyOrder(ctx context.Context) (*Order, error) {
	var orders []Order
	_, err := c.do(ctx, http.MethodGet, c.storeURL("/v2/orders?limit=1"), nil, &orders)
	if err != nil {
		c.Logger.Error("Unable to fetch an arbitrary order from platform",
			zap.Error(err),
		)
		return nil, extErrors.Wrap(err, "Cannot fetch an order")
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// RefreshToken exchanges the app credentials for a fresh access token and
// swaps it in for subsequent requests. The initial grant handshake is the
// platform's concern; only the refresh exchange is modeled here.
func (c *Client) RefreshToken(ctx context.Context) error {
	if len(c.AuthBaseURL) == 0 {
		return fmt.Errorf("token refresh requires AuthBaseURL")
	}
	payload, err := json.Marshal(map[string]string{
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
		"grant_type":    "client_credentials",
	})
	if err != nil {
		return extErrors.Wrap(err, "Cannot encode token request")
	}

	var token tokenResponse
	if _, err := c.do(ctx, http.MethodPost, c.AuthBaseURL+"/oauth2/token", bytes.NewReader(payload), &token); err != nil {
		return extErrors.Wrap(err, "Cannot refresh access token")
	}
	if len(token.AccessToken) == 0 {
		return fmt.Errorf("platform returned an empty access token")
	}

	c.mu.Lock()
	c.token = token.AccessToken
	c.mu.Unlock()

	c.Logger.Info("Refreshed platform access token")
	return nil
}

// Webhook is a platform webhook subscription
type Webhook struct {
	ID          int64  `json:"id"`
	Scope       string `json:"scope"`
	Destination string `json:"destination"`
	IsActive    bool   `json:"is_active"`
}

// ListWebhooks returns all webhook subscriptions registered for the store
func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	var hooks []Webhook
	if _, err := c.do(ctx, http.MethodGet, c.storeURL("/v2/hooks"), nil, &hooks); err != nil {
		return nil, extErrors.Wrap(err, "Cannot list webhooks")
	}
	return hooks, nil
}

// CreateWebhook registers a webhook subscription for the given scope,
// delivering to destination
func (c *Client) CreateWebhook(ctx context.Context, scope string, destination string) (*Webhook, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"scope":       scope,
		"destination": destination,
		"is_active":   true,
	})
	if err != nil {
		return nil, extErrors.Wrap(err, "Cannot encode webhook request")
	}
	var hook Webhook
	if _, err := c.do(ctx, http.MethodPost, c.storeURL("/v2/hooks"), bytes.NewReader(payload), &hook); err != nil {
		return nil, extErrors.Wrap(err, "Cannot create webhook")
	}
	return &hook, nil
}

// DeleteWebhook removes a webhook subscription by id
func (c *Client) DeleteWebhook(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodDelete, c.storeURL(fmt.Sprintf("/v2/hooks/%d", id)), nil, nil); err != nil {
		return extErrors.Wrap(err, "Cannot delete webhook")
	}
	return nil
}
