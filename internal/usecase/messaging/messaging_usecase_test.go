package messaging

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ERSinclair/haven/internal/domain"
	"github.com/ERSinclair/haven/internal/infrastructure/kvstore"
	"github.com/ERSinclair/haven/internal/infrastructure/session"
)

const (
	me    = "5c0d5c5e-0000-4000-8000-000000000001"
	peer  = "5c0d5c5e-0000-4000-8000-000000000002"
	peer2 = "5c0d5c5e-0000-4000-8000-000000000003"
)

type fakeConvRepo struct {
	convos       []*domain.Conversation
	failDeleteID string
	deleted      []string
	lastUpdated  string
}

func (f *fakeConvRepo) ListForUser(_ context.Context, userID string) ([]*domain.Conversation, error) {
	out := []*domain.Conversation{}
	for _, c := range f.convos {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConvRepo) GetByParticipants(_ context.Context, a, b string) (*domain.Conversation, error) {
	for _, c := range f.convos {
		if c.HasParticipant(a) && c.HasParticipant(b) {
			return c, nil
		}
	}
	return nil, domain.ErrConversationNotFound
}

func (f *fakeConvRepo) Create(_ context.Context, conv *domain.Conversation) error {
	conv.ID = fmt.Sprintf("conv-%d", len(f.convos)+1)
	f.convos = append(f.convos, conv)
	return nil
}

func (f *fakeConvRepo) UpdateLastMessage(_ context.Context, id, text, by string, at time.Time) error {
	f.lastUpdated = id
	for _, c := range f.convos {
		if c.ID == id {
			c.LastMessageText = text
			c.LastMessageBy = by
			c.LastMessageAt = &at
		}
	}
	return nil
}

func (f *fakeConvRepo) Delete(_ context.Context, id string) error {
	if id == f.failDeleteID {
		return errors.New("delete rejected")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeMsgRepo struct {
	messages     map[string][]*domain.Message
	failCreate   bool
	failDeleteID string
	deleted      []string
	next         int
}

func newFakeMsgRepo() *fakeMsgRepo {
	return &fakeMsgRepo{messages: map[string][]*domain.Message{}}
}

func (f *fakeMsgRepo) ListByConversation(_ context.Context, conversationID string) ([]*domain.Message, error) {
	return f.messages[conversationID], nil
}

func (f *fakeMsgRepo) Create(_ context.Context, msg *domain.Message) (*domain.Message, error) {
	if f.failCreate {
		return nil, errors.New("insert rejected")
	}
	f.next++
	created := *msg
	created.ID = fmt.Sprintf("msg-%d", f.next)
	created.CreatedAt = time.Now()
	f.messages[msg.ConversationID] = append(f.messages[msg.ConversationID], &created)
	return &created, nil
}

func (f *fakeMsgRepo) Delete(_ context.Context, id string) error {
	if id == f.failDeleteID {
		return errors.New("delete rejected")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeMsgRepo) DeleteByConversation(_ context.Context, conversationID string) error {
	delete(f.messages, conversationID)
	return nil
}

type fakeProfileRepo struct {
	summaries map[string]*domain.ProfileSummary
}

func (f *fakeProfileRepo) GetByID(context.Context, string) (*domain.Profile, error) {
	return nil, domain.ErrProfileNotFound
}

func (f *fakeProfileRepo) GetSummary(_ context.Context, id string) (*domain.ProfileSummary, error) {
	if s, ok := f.summaries[id]; ok {
		return s, nil
	}
	return nil, domain.ErrProfileNotFound
}

func (f *fakeProfileRepo) ListCandidates(context.Context, string, int) ([]*domain.Profile, error) {
	return nil, nil
}
func (f *fakeProfileRepo) Create(context.Context, *domain.Profile) error { return nil }
func (f *fakeProfileRepo) Update(context.Context, string, map[string]any) error {
	return nil
}
func (f *fakeProfileRepo) UsernameTaken(context.Context, string, string) (bool, error) {
	return false, nil
}
func (f *fakeProfileRepo) Delete(context.Context, string) error { return nil }

func signedIn(t *testing.T, userID string) *session.Accessor {
	t.Helper()
	sessions := session.NewAccessor(kvstore.NewMemory())
	require.NoError(t, sessions.Save(&session.Session{
		AccessToken: "opaque-token",
		UserID:      userID,
		ExpiresAt:   time.Now().Add(time.Hour),
	}))
	return sessions
}

func newUseCase(t *testing.T, convRepo *fakeConvRepo, msgRepo *fakeMsgRepo, profiles *fakeProfileRepo) *MessagingUseCase {
	t.Helper()
	if profiles == nil {
		profiles = &fakeProfileRepo{summaries: map[string]*domain.ProfileSummary{
			peer:  {ID: peer, Name: "The Reeds", LocationName: "Boulder, CO"},
			peer2: {ID: peer2, Name: "The Ortegas", LocationName: "Golden, CO"},
		}}
	}
	return NewMessagingUseCase(convRepo, msgRepo, profiles, signedIn(t, me), zap.NewNop())
}

func TestLoadConversationsEnriches(t *testing.T) {
	at := time.Now()
	convRepo := &fakeConvRepo{convos: []*domain.Conversation{
		{ID: "c1", Participant1: me, Participant2: peer, LastMessageText: "See you there", LastMessageAt: &at, LastMessageBy: peer},
	}}
	uc := newUseCase(t, convRepo, newFakeMsgRepo(), nil)

	summaries, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "The Reeds", summaries[0].Other.Name)
	assert.Equal(t, "See you there", summaries[0].LastMessageText)
	assert.True(t, summaries[0].Unread, "counterpart spoke last")
}

func TestLoadConversationsSoftFailsEnrichment(t *testing.T) {
	convRepo := &fakeConvRepo{convos: []*domain.Conversation{
		{ID: "c1", Participant1: me, Participant2: peer},
	}}
	uc := newUseCase(t, convRepo, newFakeMsgRepo(), &fakeProfileRepo{summaries: nil})

	summaries, err := uc.LoadConversations(context.Background())
	require.NoError(t, err, "a failed profile lookup must not hide the thread")
	require.Len(t, summaries, 1)
	assert.Equal(t, "Unknown", summaries[0].Other.Name)
	assert.Equal(t, peer, summaries[0].Other.ID)
}

func TestOpenThreadClearsUnreadLocally(t *testing.T) {
	convRepo := &fakeConvRepo{convos: []*domain.Conversation{
		{ID: "c1", Participant1: me, Participant2: peer, LastMessageBy: peer},
	}}
	msgRepo := newFakeMsgRepo()
	msgRepo.messages["c1"] = []*domain.Message{
		{ID: "m1", ConversationID: "c1", SenderID: peer, Content: "Hi!"},
	}
	uc := newUseCase(t, convRepo, msgRepo, nil)

	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)
	require.True(t, uc.Conversations()[0].Unread)

	msgs, err := uc.OpenThread(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
	assert.False(t, uc.Conversations()[0].Unread, "opening a thread clears unread without a network write")
}

func TestSendRejectsEmptyText(t *testing.T) {
	msgRepo := newFakeMsgRepo()
	uc := newUseCase(t, &fakeConvRepo{}, msgRepo, nil)

	_, err := uc.Send(context.Background(), "c1", "   \n\t ")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	assert.Zero(t, msgRepo.next, "no network call for blank text")
}

func TestSendAppendsAndUpdatesSummary(t *testing.T) {
	convRepo := &fakeConvRepo{convos: []*domain.Conversation{
		{ID: "c1", Participant1: me, Participant2: peer},
	}}
	uc := newUseCase(t, convRepo, newFakeMsgRepo(), nil)

	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)
	_, err = uc.OpenThread(context.Background(), "c1")
	require.NoError(t, err)

	created, err := uc.Send(context.Background(), "c1", "  Park at ten?  ")
	require.NoError(t, err)
	assert.Equal(t, "Park at ten?", created.Content, "text is trimmed before sending")
	assert.Len(t, uc.Messages(), 1)
	assert.Equal(t, "Park at ten?", uc.Conversations()[0].LastMessageText)
	assert.Equal(t, "c1", convRepo.lastUpdated)
}

func TestStartConversationReusesExistingThread(t *testing.T) {
	convRepo := &fakeConvRepo{convos: []*domain.Conversation{
		// Stored with the viewer as participant_2: the pair is unordered.
		{ID: "c1", Participant1: peer, Participant2: me},
	}}
	uc := newUseCase(t, convRepo, newFakeMsgRepo(), nil)

	id, err := uc.StartConversation(context.Background(), peer, "Hello again")
	require.NoError(t, err)
	assert.Equal(t, "c1", id)
	assert.Len(t, convRepo.convos, 1, "no duplicate thread for the pair")
}

func TestStartConversationCreatesThread(t *testing.T) {
	convRepo := &fakeConvRepo{}
	msgRepo := newFakeMsgRepo()
	uc := newUseCase(t, convRepo, msgRepo, nil)

	id, err := uc.StartConversation(context.Background(), peer, "First hello")
	require.NoError(t, err)
	require.Len(t, convRepo.convos, 1)
	assert.Equal(t, convRepo.convos[0].ID, id)
	assert.Equal(t, "First hello", convRepo.convos[0].LastMessageText)
	assert.Len(t, msgRepo.messages[id], 1)
}

func TestStartConversationRejectsBadRecipient(t *testing.T) {
	uc := newUseCase(t, &fakeConvRepo{}, newFakeMsgRepo(), nil)

	_, err := uc.StartConversation(context.Background(), "not-a-uuid", "Hi")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteConversationsAllOrNothing(t *testing.T) {
	convRepo := &fakeConvRepo{
		convos: []*domain.Conversation{
			{ID: "c1", Participant1: me, Participant2: peer},
			{ID: "c2", Participant1: me, Participant2: peer2},
		},
		failDeleteID: "c2",
	}
	uc := newUseCase(t, convRepo, newFakeMsgRepo(), nil)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)

	err = uc.DeleteConversations(context.Background(), []string{"c1", "c2"})
	require.Error(t, err)
	assert.Len(t, uc.Conversations(), 2, "partial failure leaves the local list untouched")
}

func TestDeleteConversationsSuccess(t *testing.T) {
	convRepo := &fakeConvRepo{convos: []*domain.Conversation{
		{ID: "c1", Participant1: me, Participant2: peer},
		{ID: "c2", Participant1: me, Participant2: peer2},
	}}
	uc := newUseCase(t, convRepo, newFakeMsgRepo(), nil)
	_, err := uc.LoadConversations(context.Background())
	require.NoError(t, err)
	_, err = uc.OpenThread(context.Background(), "c1")
	require.NoError(t, err)

	require.NoError(t, uc.DeleteConversations(context.Background(), []string{"c1"}))
	require.Len(t, uc.Conversations(), 1)
	assert.Equal(t, "c2", uc.Conversations()[0].ID)
	assert.Nil(t, uc.Messages(), "deleting the open thread closes it")
}

func TestDeleteMessagesAllOrNothing(t *testing.T) {
	msgRepo := newFakeMsgRepo()
	msgRepo.messages["c1"] = []*domain.Message{
		{ID: "m1", ConversationID: "c1", SenderID: me, Content: "one"},
		{ID: "m2", ConversationID: "c1", SenderID: me, Content: "two"},
	}
	msgRepo.failDeleteID = "m2"
	uc := newUseCase(t, &fakeConvRepo{convos: []*domain.Conversation{
		{ID: "c1", Participant1: me, Participant2: peer},
	}}, msgRepo, nil)
	_, err := uc.OpenThread(context.Background(), "c1")
	require.NoError(t, err)

	err = uc.DeleteMessages(context.Background(), []string{"m1", "m2"})
	require.Error(t, err)
	assert.Len(t, uc.Messages(), 2, "partial failure leaves the open thread untouched")

	msgRepo.failDeleteID = ""
	require.NoError(t, uc.DeleteMessages(context.Background(), []string{"m1"}))
	require.Len(t, uc.Messages(), 1)
	assert.Equal(t, "m2", uc.Messages()[0].ID)
}

func TestOperationsRequireSession(t *testing.T) {
	uc := NewMessagingUseCase(&fakeConvRepo{}, newFakeMsgRepo(), &fakeProfileRepo{},
		session.NewAccessor(kvstore.NewMemory()), zap.NewNop())

	_, err := uc.LoadConversations(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
	_, err = uc.Send(context.Background(), "c1", "hi")
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
}
