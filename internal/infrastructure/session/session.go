// Package session reads and writes the opaque bearer credential the hosted
// backend issues at sign-in. The client never verifies the token signature
// (it has no signing secret); expiry is read from the unverified claims as
// a convenience, and the backend's 401 remains authoritative.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ERSinclair/haven/internal/domain"
	"github.com/ERSinclair/haven/internal/infrastructure/kvstore"
)

const storageKey = "haven-session"

// Session is the credential bundle persisted between runs.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token's exp claim (or the stored
// expiry when the token does not parse) has passed.
func (s *Session) Expired(now time.Time) bool {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims)
	if err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return now.After(exp.Time)
		}
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return now.After(s.ExpiresAt)
}

// Accessor persists the session through the local key-value port.
type Accessor struct {
	store kvstore.Store
}

func NewAccessor(store kvstore.Store) *Accessor {
	return &Accessor{store: store}
}

// Save stores the session, replacing any previous one.
func (a *Accessor) Save(s *Session) error {
	if s == nil || s.AccessToken == "" || s.UserID == "" {
		return fmt.Errorf("refusing to store incomplete session: %w", domain.ErrInvalidInput)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return a.store.Set(storageKey, raw)
}

// Load returns the stored session, or domain.ErrNotSignedIn when none is
// stored or the stored bytes are unreadable.
func (a *Accessor) Load() (*Session, error) {
	raw, err := a.store.Get(storageKey)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, domain.ErrNotSignedIn
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		// A corrupt session is as good as no session.
		_ = a.store.Delete(storageKey)
		return nil, domain.ErrNotSignedIn
	}
	if s.AccessToken == "" || s.UserID == "" {
		return nil, domain.ErrNotSignedIn
	}
	return &s, nil
}

// Current returns a session that is present and not expired.
func (a *Accessor) Current() (*Session, error) {
	s, err := a.Load()
	if err != nil {
		return nil, err
	}
	if s.Expired(time.Now()) {
		return nil, domain.ErrSessionExpired
	}
	return s, nil
}

// Clear removes the stored session.
func (a *Accessor) Clear() error {
	return a.store.Delete(storageKey)
}

// AccessToken implements the token source used by the REST client.
func (a *Accessor) AccessToken() (string, error) {
	s, err := a.Current()
	if err != nil {
		return "", err
	}
	return s.AccessToken, nil
}

// UserID returns the signed-in profile id.
func (a *Accessor) UserID() (string, error) {
	s, err := a.Current()
	if err != nil {
		return "", err
	}
	return s.UserID, nil
}
