package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ERSinclair/haven/internal/infrastructure/kvstore"
	"github.com/ERSinclair/haven/internal/infrastructure/session"
	"github.com/ERSinclair/haven/internal/repository"
)

const (
	preferencesKey      = "haven-settings"
	welcomeCompletedKey = "haven-welcome-completed"
)

// Preferences is the locally persisted notification/privacy object. It is
// a best-effort cache, never authoritative.
type Preferences struct {
	NotifyMessages bool `json:"notify_messages"`
	NotifyEvents   bool `json:"notify_events"`
	ShowOnMap      bool `json:"show_on_map"`
	AllowMessages  bool `json:"allow_messages"`
}

// DefaultPreferences mirrors what a fresh install behaves like.
func DefaultPreferences() Preferences {
	return Preferences{
		NotifyMessages: true,
		NotifyEvents:   true,
		ShowOnMap:      true,
		AllowMessages:  true,
	}
}

type SettingsUseCase struct {
	profileRepo repository.ProfileRepository
	sessions    *session.Accessor
	store       kvstore.Store
	log         *zap.Logger
}

func NewSettingsUseCase(
	profileRepo repository.ProfileRepository,
	sessions *session.Accessor,
	store kvstore.Store,
	log *zap.Logger,
) *SettingsUseCase {
	return &SettingsUseCase{
		profileRepo: profileRepo,
		sessions:    sessions,
		store:       store,
		log:         log,
	}
}

// Preferences returns the stored preferences, falling back to defaults
// when nothing (or something unreadable) is stored.
func (uc *SettingsUseCase) Preferences() Preferences {
	raw, err := uc.store.Get(preferencesKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrKeyNotFound) {
			uc.log.Warn("failed to read preferences", zap.Error(err))
		}
		return DefaultPreferences()
	}
	var prefs Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		uc.log.Warn("preferences are corrupt, using defaults", zap.Error(err))
		return DefaultPreferences()
	}
	return prefs
}

// SavePreferences persists the preferences object.
func (uc *SettingsUseCase) SavePreferences(prefs Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	return uc.store.Set(preferencesKey, raw)
}

// WelcomeCompleted reports whether the first-run welcome flow has been
// dismissed on this device.
func (uc *SettingsUseCase) WelcomeCompleted() bool {
	_, err := uc.store.Get(welcomeCompletedKey)
	return err == nil
}

// MarkWelcomeCompleted records that the welcome flow is done.
func (uc *SettingsUseCase) MarkWelcomeCompleted() error {
	return uc.store.Set(welcomeCompletedKey, []byte("true"))
}

// DeleteAccount removes the caller's profile row and wipes local state.
// The backend cascades the rest through its own policies.
func (uc *SettingsUseCase) DeleteAccount(ctx context.Context) error {
	userID, err := uc.sessions.UserID()
	if err != nil {
		return err
	}
	if err := uc.profileRepo.Delete(ctx, userID); err != nil {
		return err
	}
	uc.wipeLocal()
	return nil
}

func (uc *SettingsUseCase) wipeLocal() {
	for _, key := range []string{preferencesKey, welcomeCompletedKey, "haven-hidden-families", "haven-saved-email"} {
		if err := uc.store.Delete(key); err != nil {
			uc.log.Warn("failed to clear local key", zap.String("key", key), zap.Error(err))
		}
	}
	if err := uc.sessions.Clear(); err != nil {
		uc.log.Warn("failed to clear session", zap.Error(err))
	}
}
