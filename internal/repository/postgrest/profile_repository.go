package postgrest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ERSinclair/haven/internal/domain"
	"github.com/ERSinclair/haven/internal/repository"
)

type ProfileRepository struct {
	client *Client
}

func NewProfileRepository(client *Client) repository.ProfileRepository {
	return &ProfileRepository{client: client}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := url.Values{}
	query.Set("id", eq(id))
	query.Set("select", "*")

	var rows []*domain.Profile
	if err := r.client.Select(ctx, "profiles", query, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrProfileNotFound
	}
	return rows[0], nil
}

func (r *ProfileRepository) GetSummary(ctx context.Context, id string) (*domain.ProfileSummary, error) {
	query := url.Values{}
	query.Set("id", eq(id))
	query.Set("select", "id,name,location_name")

	var rows []*domain.ProfileSummary
	if err := r.client.Select(ctx, "profiles", query, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch profile summary: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrProfileNotFound
	}
	return rows[0], nil
}

func (r *ProfileRepository) ListCandidates(ctx context.Context, viewerID string, limit int) ([]*domain.Profile, error) {
	query := url.Values{}
	query.Set("id", neq(viewerID))
	query.Set("is_banned", eq("false"))
	query.Set("select", "*")
	query.Set("order", "created_at.desc")
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var rows []*domain.Profile
	if err := r.client.Select(ctx, "profiles", query, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	return rows, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if err := r.client.Insert(ctx, "profiles", profile, nil); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	query := url.Values{}
	query.Set("id", eq(id))
	if err := r.client.Update(ctx, "profiles", query, fields); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	query := url.Values{}
	query.Set("username", eq(username))
	if excludeID != "" {
		query.Set("id", neq(excludeID))
	}
	query.Set("select", "id")

	var rows []*domain.ProfileSummary
	if err := r.client.Select(ctx, "profiles", query, &rows); err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return len(rows) > 0, nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", eq(id))
	if err := r.client.Delete(ctx, "profiles", query); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
