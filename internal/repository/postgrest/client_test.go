package postgrest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ERSinclair/haven/internal/domain"
)

type staticTokens string

func (s staticTokens) AccessToken() (string, error) { return string(s), nil }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "anon-key", staticTokens("bearer-token"), time.Second, zap.NewNop())
}

func TestClientAttachesCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer bearer-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	})

	var rows []*domain.Profile
	require.NoError(t, client.Select(context.Background(), "profiles", nil, &rows))
}

func TestClientMaps401ToSessionExpired(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	var rows []*domain.Profile
	err := client.Select(context.Background(), "profiles", nil, &rows)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestClientInsertPreferHeader(t *testing.T) {
	var prefers []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		prefers = append(prefers, r.Header.Get("Prefer"))
		_, _ = w.Write([]byte(`[{"id":"row-1"}]`))
	})

	var rows []*domain.Conversation
	require.NoError(t, client.Insert(context.Background(), "conversations", map[string]any{}, &rows))
	require.NoError(t, client.Insert(context.Background(), "conversations", map[string]any{}, nil))
	assert.Equal(t, []string{"return=representation", "return=minimal"}, prefers)
}

func TestProfileRepositoryGetByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profiles", r.URL.Path)
		assert.Equal(t, "eq.user-1", r.URL.Query().Get("id"))
		_ = json.NewEncoder(w).Encode([]*domain.Profile{{ID: "user-1", Name: "The Larsens"}})
	})
	repo := NewProfileRepository(client)

	p, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "The Larsens", p.Name)
}

func TestProfileRepositoryNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	repo := NewProfileRepository(client)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileRepositoryListCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "neq.viewer-1", q.Get("id"))
		assert.Equal(t, "eq.false", q.Get("is_banned"))
		assert.Equal(t, "created_at.desc", q.Get("order"))
		assert.Equal(t, "50", q.Get("limit"))
		_, _ = w.Write([]byte(`[]`))
	})
	repo := NewProfileRepository(client)

	_, err := repo.ListCandidates(context.Background(), "viewer-1", 50)
	require.NoError(t, err)
}

func TestConversationRepositoryUnorderedPairLookup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		or := r.URL.Query().Get("or")
		assert.Equal(t,
			"(and(participant_1.eq.alice,participant_2.eq.bob),and(participant_1.eq.bob,participant_2.eq.alice))",
			or)
		_ = json.NewEncoder(w).Encode([]*domain.Conversation{
			{ID: "c1", Participant1: "bob", Participant2: "alice"},
		})
	})
	repo := NewConversationRepository(client)

	conv, err := repo.GetByParticipants(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "c1", conv.ID)
}

func TestConversationRepositoryListForUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "(participant_1.eq.alice,participant_2.eq.alice)", q.Get("or"))
		assert.Equal(t, "last_message_at.desc.nullslast", q.Get("order"))
		_, _ = w.Write([]byte(`[]`))
	})
	repo := NewConversationRepository(client)

	_, err := repo.ListForUser(context.Background(), "alice")
	require.NoError(t, err)
}

func TestConversationRepositoryCreateAdoptsRepresentation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode([]*domain.Conversation{
			{ID: "assigned-id", Participant1: "alice", Participant2: "bob"},
		})
	})
	repo := NewConversationRepository(client)

	conv := &domain.Conversation{Participant1: "alice", Participant2: "bob"}
	require.NoError(t, repo.Create(context.Background(), conv))
	assert.Equal(t, "assigned-id", conv.ID)
}

func TestExpiredTokenShortCircuitsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "anon-key", failingTokens{}, time.Second, zap.NewNop())
	var rows []*domain.Profile
	err := client.Select(context.Background(), "profiles", url.Values{}, &rows)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.False(t, called, "no request is sent without a usable token")
}

type failingTokens struct{}

func (failingTokens) AccessToken() (string, error) { return "", domain.ErrSessionExpired }
