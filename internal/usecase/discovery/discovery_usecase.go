package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ERSinclair/haven/internal/domain"
	"github.com/ERSinclair/haven/internal/infrastructure/kvstore"
	"github.com/ERSinclair/haven/internal/infrastructure/session"
	"github.com/ERSinclair/haven/internal/repository"
)

const hiddenFamiliesKey = "haven-hidden-families"

// IncompleteProfileError gates the feed: an unfinished profile is routed
// back into the signup wizard instead of seeing candidates.
type IncompleteProfileError struct {
	Step domain.CompletionStep
}

func (e *IncompleteProfileError) Error() string {
	return fmt.Sprintf("profile incomplete, resume at %s", domain.ResumePath(e.Step))
}

// DiscoveryUseCase loads the browse feed and owns the client-local hidden
// list. Hiding is purely local: the backend never learns about it and
// hidden ids survive restarts through the key-value store.
type DiscoveryUseCase struct {
	profileRepo repository.ProfileRepository
	sessions    *session.Accessor
	store       kvstore.Store
	pageSize    int
	log         *zap.Logger
}

func NewDiscoveryUseCase(
	profileRepo repository.ProfileRepository,
	sessions *session.Accessor,
	store kvstore.Store,
	pageSize int,
	log *zap.Logger,
) *DiscoveryUseCase {
	return &DiscoveryUseCase{
		profileRepo: profileRepo,
		sessions:    sessions,
		store:       store,
		pageSize:    pageSize,
		log:         log,
	}
}

// LoadFeed fetches the viewer's profile and the candidate list. Incomplete
// profiles get an IncompleteProfileError carrying the wizard step to
// resume at; a failed candidate fetch degrades to an empty feed so the
// rest of the client stays usable.
func (uc *DiscoveryUseCase) LoadFeed(ctx context.Context) (*Feed, error) {
	userID, err := uc.sessions.UserID()
	if err != nil {
		return nil, err
	}

	viewer, err := uc.profileRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil, &IncompleteProfileError{Step: domain.StepAboutYou}
	}
	if err != nil {
		return nil, err
	}
	if step := domain.ClassifyProfile(viewer); step != domain.StepComplete {
		return nil, &IncompleteProfileError{Step: step}
	}

	candidates, err := uc.profileRepo.ListCandidates(ctx, userID, uc.pageSize)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return nil, err
		}
		uc.log.Warn("candidate fetch failed, showing empty feed", zap.Error(err))
		candidates = nil
	}
	return NewFeed(viewer, candidates), nil
}

// Visible applies the filter plus the persisted hidden list.
func (uc *DiscoveryUseCase) Visible(feed *Feed, filter Filter) []*domain.Profile {
	hidden := uc.Hidden()
	if len(hidden) > 0 {
		if filter.Exclude == nil {
			filter.Exclude = make(map[string]struct{}, len(hidden))
		}
		for _, id := range hidden {
			filter.Exclude[id] = struct{}{}
		}
	}
	return feed.Visible(filter)
}

// Hidden returns the persisted hidden-family ids. A corrupt entry is
// dropped rather than breaking the feed.
func (uc *DiscoveryUseCase) Hidden() []string {
	raw, err := uc.store.Get(hiddenFamiliesKey)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		uc.log.Warn("failed to read hidden list", zap.Error(err))
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		uc.log.Warn("hidden list is corrupt, clearing it", zap.Error(err))
		_ = uc.store.Delete(hiddenFamiliesKey)
		return nil
	}
	return ids
}

// Hide adds ids to the hidden list and persists it. Already-hidden ids are
// kept once.
func (uc *DiscoveryUseCase) Hide(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	existing := uc.Hidden()
	seen := make(map[string]struct{}, len(existing)+len(ids))
	merged := make([]string, 0, len(existing)+len(ids))
	for _, id := range append(existing, ids...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode hidden list: %w", err)
	}
	return uc.store.Set(hiddenFamiliesKey, raw)
}

// ClearHidden forgets every hidden family.
func (uc *DiscoveryUseCase) ClearHidden() error {
	return uc.store.Delete(hiddenFamiliesKey)
}
