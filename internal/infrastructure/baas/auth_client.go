// Package baas talks to the hosted backend's auth endpoints. The backend
// owns accounts, password hashing, and token issuance; this client only
// exchanges credentials for tokens.
package baas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ERSinclair/haven/internal/domain"
)

// ErrBadCredentials is returned when the backend rejects an email/password
// pair.
var ErrBadCredentials = errors.New("invalid email or password")

// TokenResponse is the grant response from the auth endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// ExpiresAt converts the relative expiry to an absolute instant.
func (t *TokenResponse) ExpiresAt(now time.Time) time.Time {
	if t.ExpiresIn <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(t.ExpiresIn) * time.Second)
}

type AuthClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

// NewAuthClient creates a client rooted at the backend's auth base URL
// (e.g. https://host/auth/v1).
func NewAuthClient(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// SignIn performs the password grant.
func (c *AuthClient) SignIn(ctx context.Context, email, password string) (*TokenResponse, error) {
	return c.tokenRequest(ctx, c.baseURL+"/token?grant_type=password", email, password)
}

// SignUp registers a new account. An already-registered email surfaces as
// domain.ErrAccountExists so the caller can steer the user to sign-in.
func (c *AuthClient) SignUp(ctx context.Context, email, password string) (*TokenResponse, error) {
	return c.tokenRequest(ctx, c.baseURL+"/signup", email, password)
}

// SignOut revokes the given token. Best effort: local state is the
// caller's to clear regardless of the outcome.
func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to build logout request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend returned %d for logout", resp.StatusCode)
	}
	return nil
}

func (c *AuthClient) tokenRequest(ctx context.Context, endpoint, email, password string) (*TokenResponse, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		// fall through to decode
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrBadCredentials
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, domain.ErrAccountExists
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("auth endpoint rejected request",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("detail", detail),
		)
		return nil, fmt.Errorf("auth endpoint returned %d", resp.StatusCode)
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if token.AccessToken == "" || token.User.ID == "" {
		return nil, fmt.Errorf("auth response missing token or user id")
	}
	return &token, nil
}
