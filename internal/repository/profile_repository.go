package repository

import (
	"context"

	"github.com/ERSinclair/haven/internal/domain"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetSummary(ctx context.Context, id string) (*domain.ProfileSummary, error)
	// ListCandidates returns every visible profile except the viewer's own
	// and banned rows, newest first.
	ListCandidates(ctx context.Context, viewerID string, limit int) ([]*domain.Profile, error)
	Create(ctx context.Context, profile *domain.Profile) error
	// Update applies a partial update to the given profile row.
	Update(ctx context.Context, id string, fields map[string]any) error
	// UsernameTaken reports whether another profile already owns username.
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	Delete(ctx context.Context, id string) error
}
