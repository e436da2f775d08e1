package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ERSinclair/haven/internal/domain"
	"github.com/ERSinclair/haven/internal/infrastructure/kvstore"
	"github.com/ERSinclair/haven/internal/infrastructure/session"
)

const me = "5c0d5c5e-0000-4000-8000-000000000001"

type fakeProfileRepo struct {
	profiles      map[string]*domain.Profile
	candidates    []*domain.Profile
	candidatesErr error
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProfileNotFound
}

func (f *fakeProfileRepo) GetSummary(context.Context, string) (*domain.ProfileSummary, error) {
	return nil, domain.ErrProfileNotFound
}

func (f *fakeProfileRepo) ListCandidates(context.Context, string, int) ([]*domain.Profile, error) {
	if f.candidatesErr != nil {
		return nil, f.candidatesErr
	}
	return f.candidates, nil
}

func (f *fakeProfileRepo) Create(context.Context, *domain.Profile) error { return nil }
func (f *fakeProfileRepo) Update(context.Context, string, map[string]any) error {
	return nil
}
func (f *fakeProfileRepo) UsernameTaken(context.Context, string, string) (bool, error) {
	return false, nil
}
func (f *fakeProfileRepo) Delete(context.Context, string) error { return nil }

func signedIn(t *testing.T) *session.Accessor {
	t.Helper()
	sessions := session.NewAccessor(kvstore.NewMemory())
	require.NoError(t, sessions.Save(&session.Session{
		AccessToken: "opaque-token",
		UserID:      me,
		ExpiresAt:   time.Now().Add(time.Hour),
	}))
	return sessions
}

func completeViewer() *domain.Profile {
	return &domain.Profile{
		ID: me, Name: "Viewer", Username: "viewer", LocationName: "Fort Collins, CO",
		Status: []string{"experienced"}, KidsAges: []int{6}, ContactMethods: []string{"app"},
	}
}

func newUseCase(t *testing.T, repo *fakeProfileRepo) (*DiscoveryUseCase, kvstore.Store) {
	t.Helper()
	store := kvstore.NewMemory()
	return NewDiscoveryUseCase(repo, signedIn(t), store, 100, zap.NewNop()), store
}

func TestLoadFeedGatesIncompleteProfiles(t *testing.T) {
	viewer := completeViewer()
	viewer.KidsAges = nil
	uc, _ := newUseCase(t, &fakeProfileRepo{profiles: map[string]*domain.Profile{me: viewer}})

	_, err := uc.LoadFeed(context.Background())
	var incomplete *IncompleteProfileError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, domain.StepKids, incomplete.Step)
}

func TestLoadFeedMissingProfileGatesAtAboutYou(t *testing.T) {
	uc, _ := newUseCase(t, &fakeProfileRepo{profiles: map[string]*domain.Profile{}})

	_, err := uc.LoadFeed(context.Background())
	var incomplete *IncompleteProfileError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, domain.StepAboutYou, incomplete.Step)
}

func TestLoadFeedDegradesToEmptyOnCandidateFailure(t *testing.T) {
	uc, _ := newUseCase(t, &fakeProfileRepo{
		profiles:      map[string]*domain.Profile{me: completeViewer()},
		candidatesErr: errors.New("backend hiccup"),
	})

	feed, err := uc.LoadFeed(context.Background())
	require.NoError(t, err, "a failed candidate fetch must not block the client")
	assert.Empty(t, feed.Candidates())
}

func TestLoadFeedPropagatesExpiredSession(t *testing.T) {
	uc, _ := newUseCase(t, &fakeProfileRepo{
		profiles:      map[string]*domain.Profile{me: completeViewer()},
		candidatesErr: domain.ErrSessionExpired,
	})

	_, err := uc.LoadFeed(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestHidePersistsAndMergesIntoFilter(t *testing.T) {
	candidates := []*domain.Profile{
		{ID: "a", Name: "A", KidsAges: []int{6}},
		{ID: "b", Name: "B", KidsAges: []int{6}},
	}
	uc, _ := newUseCase(t, &fakeProfileRepo{
		profiles:   map[string]*domain.Profile{me: completeViewer()},
		candidates: candidates,
	})

	feed, err := uc.LoadFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, uc.Visible(feed, feed.DefaultFilter()), 2)

	require.NoError(t, uc.Hide([]string{"a"}))
	visible := uc.Visible(feed, feed.DefaultFilter())
	require.Len(t, visible, 1)
	assert.Equal(t, "b", visible[0].ID)
}

func TestHideDeduplicates(t *testing.T) {
	uc, _ := newUseCase(t, &fakeProfileRepo{})

	require.NoError(t, uc.Hide([]string{"a", "b"}))
	require.NoError(t, uc.Hide([]string{"b", "c"}))
	assert.Equal(t, []string{"a", "b", "c"}, uc.Hidden())
}

func TestClearHidden(t *testing.T) {
	uc, _ := newUseCase(t, &fakeProfileRepo{})

	require.NoError(t, uc.Hide([]string{"a"}))
	require.NoError(t, uc.ClearHidden())
	assert.Empty(t, uc.Hidden())
}

func TestHiddenDropsCorruptEntry(t *testing.T) {
	uc, store := newUseCase(t, &fakeProfileRepo{})
	require.NoError(t, store.Set("haven-hidden-families", []byte("{not json")))

	assert.Empty(t, uc.Hidden())
	_, err := store.Get("haven-hidden-families")
	assert.ErrorIs(t, err, kvstore.ErrKeyNotFound, "corrupt entry is cleared")
}
