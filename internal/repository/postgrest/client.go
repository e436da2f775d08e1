// Package postgrest implements the repository interfaces against the
// hosted backend's tabular REST surface. Rows are filtered with the
// backend's query syntax (eq., neq., or=(...)) and authorization is
// enforced server-side by row-level policies; this layer only attaches
// credentials and maps transport failures onto domain errors.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ERSinclair/haven/internal/domain"
)

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	AccessToken() (string, error)
}

type Client struct {
	baseURL string
	apiKey  string
	tokens  TokenSource
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a REST client rooted at the backend's tabular base URL
// (e.g. https://host/rest/v1).
func NewClient(baseURL, apiKey string, tokens TokenSource, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Select fetches rows from table into out (a pointer to a slice).
func (c *Client) Select(ctx context.Context, table string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, table, query, nil, out)
}

// Insert creates rows. When out is non-nil the backend is asked to return
// the created representation and the first row set is decoded into it.
func (c *Client) Insert(ctx context.Context, table string, body any, out any) error {
	return c.do(ctx, http.MethodPost, table, nil, body, out)
}

// Update applies a partial update to every row matching query.
func (c *Client) Update(ctx context.Context, table string, query url.Values, body any) error {
	return c.do(ctx, http.MethodPatch, table, query, body, nil)
}

// Delete removes every row matching query.
func (c *Client) Delete(ctx context.Context, table string, query url.Values) error {
	return c.do(ctx, http.MethodDelete, table, query, nil, nil)
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, body, out any) error {
	token, err := c.tokens.AccessToken()
	if err != nil {
		return err
	}

	endpoint := c.baseURL + "/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		if out != nil {
			req.Header.Set("Prefer", "return=representation")
		} else {
			req.Header.Set("Prefer", "return=minimal")
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return domain.ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("backend rejected request",
			zap.String("table", table),
			zap.String("method", method),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("detail", detail),
		)
		return fmt.Errorf("backend returned %d for %s %s", resp.StatusCode, method, table)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", table, err)
		}
	}
	return nil
}

// eq builds a single equality filter value.
func eq(value string) string {
	return "eq." + value
}

// neq builds a single inequality filter value.
func neq(value string) string {
	return "neq." + value
}
