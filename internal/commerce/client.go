package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"quick-order/internal/config"

	"go.uber.org/zap"
)

var (
	// ErrNoData is returned when a GraphQL response carries no data payload.
	ErrNoData = errors.New("no data returned from commerce API")
)

// GraphQLError is a single error entry from a GraphQL response.
type GraphQLError struct {
	Message string `json:"message"`
}

// Request is the JSON body of a GraphQL POST.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// Client is a GraphQL client for one commerce platform endpoint. The same
// transport serves both the storefront and the admin API; only the endpoint
// and the access-token header differ.
type Client struct {
	httpClient *http.Client
	endpoint   string
	headers    map[string]string
	logger     *zap.Logger
}

// NewStorefrontClient creates a client for the storefront API.
func NewStorefrontClient(cfg config.StorefrontConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   fmt.Sprintf("https://%s/api/%s/graphql.json", cfg.Domain, cfg.APIVersion),
		headers: map[string]string{
			"X-Shopify-Storefront-Access-Token": cfg.AccessToken,
		},
		logger: logger,
	}
}

// NewAdminClient creates a client for the admin API.
func NewAdminClient(domain string, cfg config.AdminConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   fmt.Sprintf("https://%s/admin/api/%s/graphql.json", domain, cfg.APIVersion),
		headers: map[string]string{
			"X-Shopify-Access-Token": cfg.AccessToken,
		},
		logger: logger,
	}
}

// NewClient creates a client against an explicit endpoint. Used by tests and
// by deployments that front the platform APIs with a proxy.
func NewClient(endpoint string, headers map[string]string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   endpoint,
		headers:    headers,
		logger:     logger,
	}
}

// Query executes a GraphQL query and unmarshals the response data into out.
// A response without data, or with GraphQL errors, fails the request; callers
// treat both as fatal upstream failures.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(Request{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("commerce API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("commerce API returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode commerce API response: %w", err)
	}

	if len(env.Errors) > 0 {
		c.logger.Error("Commerce API returned errors",
			zap.String("endpoint", c.endpoint),
			zap.String("message", env.Errors[0].Message),
			zap.Int("count", len(env.Errors)),
		)
		return fmt.Errorf("commerce API error: %s", env.Errors[0].Message)
	}

	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return ErrNoData
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode commerce API data: %w", err)
	}

	return nil
}
