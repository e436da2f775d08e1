package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ERSinclair/haven/internal/domain"
	"github.com/ERSinclair/haven/internal/infrastructure/baas"
	"github.com/ERSinclair/haven/internal/infrastructure/kvstore"
	"github.com/ERSinclair/haven/internal/infrastructure/session"
	"github.com/ERSinclair/haven/internal/repository"
)

const savedEmailKey = "haven-saved-email"

type AuthUseCase struct {
	client      *baas.AuthClient
	sessions    *session.Accessor
	profileRepo repository.ProfileRepository
	store       kvstore.Store
	validate    *validator.Validate
	log         *zap.Logger
}

func NewAuthUseCase(
	client *baas.AuthClient,
	sessions *session.Accessor,
	profileRepo repository.ProfileRepository,
	store kvstore.Store,
	log *zap.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		client:      client,
		sessions:    sessions,
		profileRepo: profileRepo,
		store:       store,
		validate:    validator.New(),
		log:         log,
	}
}

// SignIn exchanges credentials for a session and persists it. The email is
// remembered locally as a convenience for the next sign-in form.
func (uc *AuthUseCase) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if err := uc.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	token, err := uc.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s := sessionFromToken(token)
	if err := uc.sessions.Save(s); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	uc.rememberEmail(email)
	return s, nil
}

// SignUp registers an account (wizard step 1) and creates the initial
// partial profile row the later steps fill in. Local preconditions are
// checked before any network call.
func (uc *AuthUseCase) SignUp(ctx context.Context, email, password, confirm string) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if err := uc.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}
	if password != confirm {
		return nil, domain.ErrPasswordMismatch
	}

	token, err := uc.client.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s := sessionFromToken(token)
	if err := uc.sessions.Save(s); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	uc.rememberEmail(email)

	profile := &domain.Profile{
		ID:             s.UserID,
		Email:          email,
		ContactMethods: []string{"app"},
	}
	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		// The account exists either way; the wizard's resume path creates
		// the row on the next step if this failed.
		uc.log.Warn("failed to create initial profile row", zap.Error(err))
	}
	return s, nil
}

// SignOut revokes the token best-effort and always clears the local
// session.
func (uc *AuthUseCase) SignOut(ctx context.Context) error {
	s, err := uc.sessions.Load()
	if err == nil {
		if err := uc.client.SignOut(ctx, s.AccessToken); err != nil {
			uc.log.Warn("remote logout failed", zap.Error(err))
		}
	} else if !errors.Is(err, domain.ErrNotSignedIn) {
		return err
	}
	return uc.sessions.Clear()
}

// Session returns the current, unexpired session.
func (uc *AuthUseCase) Session() (*session.Session, error) {
	return uc.sessions.Current()
}

// SavedEmail returns the last email used to sign in, if any.
func (uc *AuthUseCase) SavedEmail() string {
	raw, err := uc.store.Get(savedEmailKey)
	if err != nil {
		return ""
	}
	return string(raw)
}

func (uc *AuthUseCase) rememberEmail(email string) {
	if err := uc.store.Set(savedEmailKey, []byte(email)); err != nil {
		uc.log.Warn("failed to save email locally", zap.Error(err))
	}
}

func sessionFromToken(token *baas.TokenResponse) *session.Session {
	return &session.Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		UserID:       token.User.ID,
		Email:        token.User.Email,
		ExpiresAt:    token.ExpiresAt(time.Now()),
	}
}
