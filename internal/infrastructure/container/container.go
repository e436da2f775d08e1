package container

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ERSinclair/haven/internal/config"
	"github.com/ERSinclair/haven/internal/infrastructure/baas"
	"github.com/ERSinclair/haven/internal/infrastructure/kvstore"
	"github.com/ERSinclair/haven/internal/infrastructure/session"
	"github.com/ERSinclair/haven/internal/repository/postgrest"
	"github.com/ERSinclair/haven/internal/usecase/auth"
	"github.com/ERSinclair/haven/internal/usecase/discovery"
	"github.com/ERSinclair/haven/internal/usecase/events"
	"github.com/ERSinclair/haven/internal/usecase/messaging"
	"github.com/ERSinclair/haven/internal/usecase/onboarding"
	"github.com/ERSinclair/haven/internal/usecase/settings"
)

// Container holds all application dependencies.
type Container struct {
	Config   *config.Config
	Log      *zap.Logger
	Store    kvstore.Store
	Sessions *session.Accessor

	Auth       *auth.AuthUseCase
	Onboarding *onboarding.OnboardingUseCase
	Discovery  *discovery.DiscoveryUseCase
	Messaging  *messaging.MessagingUseCase
	Events     *events.EventsUseCase
	Settings   *settings.SettingsUseCase
}

// NewContainer creates a new dependency injection container.
func NewContainer(cfg *config.Config) (*Container, error) {
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := kvstore.NewBadger(kvstore.DefaultBadgerConfig(cfg.Storage.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local store: %w", err)
	}

	sessions := session.NewAccessor(store)

	authClient := baas.NewAuthClient(cfg.Backend.AuthURL(), cfg.Backend.AnonKey, cfg.Backend.RequestTimeout, log)
	restClient := postgrest.NewClient(cfg.Backend.RestURL(), cfg.Backend.AnonKey, sessions, cfg.Backend.RequestTimeout, log)

	// Initialize repositories
	profileRepo := postgrest.NewProfileRepository(restClient)
	convRepo := postgrest.NewConversationRepository(restClient)
	msgRepo := postgrest.NewMessageRepository(restClient)
	eventRepo := postgrest.NewEventRepository(restClient)

	// Initialize use cases
	authUseCase := auth.NewAuthUseCase(authClient, sessions, profileRepo, store, log)
	onboardingUseCase := onboarding.NewOnboardingUseCase(profileRepo, sessions, log)
	discoveryUseCase := discovery.NewDiscoveryUseCase(profileRepo, sessions, store, cfg.Client.FeedPageSize, log)
	messagingUseCase := messaging.NewMessagingUseCase(convRepo, msgRepo, profileRepo, sessions, log)
	eventsUseCase := events.NewEventsUseCase(eventRepo, profileRepo, sessions, log)
	settingsUseCase := settings.NewSettingsUseCase(profileRepo, sessions, store, log)

	return &Container{
		Config:     cfg,
		Log:        log,
		Store:      store,
		Sessions:   sessions,
		Auth:       authUseCase,
		Onboarding: onboardingUseCase,
		Discovery:  discoveryUseCase,
		Messaging:  messagingUseCase,
		Events:     eventsUseCase,
		Settings:   settingsUseCase,
	}, nil
}

// Close releases everything the container owns.
func (c *Container) Close() error {
	_ = c.Log.Sync()
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			return fmt.Errorf("failed to close local store: %w", err)
		}
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Env == "development" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.Level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zcfg.Build()
}
