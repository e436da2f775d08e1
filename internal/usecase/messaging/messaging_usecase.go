package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ERSinclair/haven/internal/domain"
	"github.com/ERSinclair/haven/internal/infrastructure/session"
	"github.com/ERSinclair/haven/internal/repository"
)

// ConversationSummary is one row of the thread list: the counterpart plus
// the denormalized last-message cache and the derived unread flag.
type ConversationSummary struct {
	ID              string                `json:"id"`
	Other           domain.ProfileSummary `json:"other_user"`
	LastMessageText string                `json:"last_message_text,omitempty"`
	LastMessageAt   *time.Time            `json:"last_message_at,omitempty"`
	Unread          bool                  `json:"unread"`
}

// MessagingUseCase keeps the in-memory conversation cache and the message
// list of the currently open thread. Writes apply locally only after the
// backend confirms them; reads fail soft so one bad row never hides the
// rest. Not safe for concurrent use.
type MessagingUseCase struct {
	convRepo    repository.ConversationRepository
	msgRepo     repository.MessageRepository
	profileRepo repository.ProfileRepository
	sessions    *session.Accessor
	log         *zap.Logger

	conversations []*ConversationSummary
	openID        string
	messages      []*domain.Message
}

func NewMessagingUseCase(
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	profileRepo repository.ProfileRepository,
	sessions *session.Accessor,
	log *zap.Logger,
) *MessagingUseCase {
	return &MessagingUseCase{
		convRepo:    convRepo,
		msgRepo:     msgRepo,
		profileRepo: profileRepo,
		sessions:    sessions,
		log:         log,
	}
}

// LoadConversations fetches every thread the user participates in and
// enriches each with the counterpart's profile. Enrichment failures fall
// back to a placeholder counterpart instead of aborting the list.
func (uc *MessagingUseCase) LoadConversations(ctx context.Context) ([]*ConversationSummary, error) {
	userID, err := uc.sessions.UserID()
	if err != nil {
		return nil, err
	}

	convos, err := uc.convRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*ConversationSummary, 0, len(convos))
	for _, c := range convos {
		otherID, ok := c.OtherParticipant(userID)
		if !ok {
			// Row-level policies should make this impossible; skip rather
			// than show a thread with no counterpart.
			uc.log.Warn("conversation without current user as participant", zap.String("conversation", c.ID))
			continue
		}

		other := domain.ProfileSummary{ID: otherID, Name: "Unknown"}
		if summary, err := uc.profileRepo.GetSummary(ctx, otherID); err == nil {
			other = *summary
		} else {
			uc.log.Warn("failed to load counterpart profile",
				zap.String("profile", otherID), zap.Error(err))
		}

		summaries = append(summaries, &ConversationSummary{
			ID:              c.ID,
			Other:           other,
			LastMessageText: c.LastMessageText,
			LastMessageAt:   c.LastMessageAt,
			Unread:          c.UnreadFor(userID),
		})
	}

	uc.conversations = summaries
	return summaries, nil
}

// Conversations returns the cached thread list.
func (uc *MessagingUseCase) Conversations() []*ConversationSummary {
	return uc.conversations
}

// OpenThread fetches the ordered messages of one conversation and clears
// its unread flag locally; the backend has no mark-read primitive. A
// response for a thread that is no longer open is discarded.
func (uc *MessagingUseCase) OpenThread(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	uc.openID = conversationID

	msgs, err := uc.msgRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if uc.openID != conversationID {
		// The user moved on while the fetch was in flight.
		return nil, nil
	}

	uc.messages = msgs
	for _, summary := range uc.conversations {
		if summary.ID == conversationID {
			summary.Unread = false
			break
		}
	}
	return msgs, nil
}

// CloseThread drops the open-thread state so late responses are ignored.
func (uc *MessagingUseCase) CloseThread() {
	uc.openID = ""
	uc.messages = nil
}

// Messages returns the open thread's cached messages.
func (uc *MessagingUseCase) Messages() []*domain.Message {
	return uc.messages
}

// Send posts text into a conversation. Empty or whitespace-only text is
// rejected before any network call. On success the message is appended to
// the open thread and the conversation's last-message cache is updated; no
// reload happens.
func (uc *MessagingUseCase) Send(ctx context.Context, conversationID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}
	userID, err := uc.sessions.UserID()
	if err != nil {
		return nil, err
	}

	created, err := uc.msgRepo.Create(ctx, &domain.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        text,
	})
	if err != nil {
		return nil, err
	}

	sentAt := created.CreatedAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}
	if err := uc.convRepo.UpdateLastMessage(ctx, conversationID, text, userID, sentAt); err != nil {
		// The message exists; the stale cache self-heals on the next send.
		uc.log.Warn("failed to update last-message cache", zap.Error(err))
	}

	if uc.openID == conversationID {
		uc.messages = append(uc.messages, created)
	}
	for _, summary := range uc.conversations {
		if summary.ID == conversationID {
			summary.LastMessageText = text
			summary.LastMessageAt = &sentAt
			summary.Unread = false
			break
		}
	}
	return created, nil
}

// StartConversation sends the first message to a recipient. The pair is
// looked up in either participant order first: there is at most one
// conversation per unordered pair, so an existing thread is reused.
func (uc *MessagingUseCase) StartConversation(ctx context.Context, recipientID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyMessage
	}
	if _, err := uuid.Parse(recipientID); err != nil {
		return "", fmt.Errorf("%w: recipient id is not a valid id", domain.ErrInvalidInput)
	}
	userID, err := uc.sessions.UserID()
	if err != nil {
		return "", err
	}

	existing, err := uc.convRepo.GetByParticipants(ctx, userID, recipientID)
	if err == nil {
		if _, err := uc.Send(ctx, existing.ID, text); err != nil {
			return "", err
		}
		return existing.ID, nil
	}
	if !errors.Is(err, domain.ErrConversationNotFound) {
		return "", err
	}

	now := time.Now()
	text = strings.TrimSpace(text)
	conv := &domain.Conversation{
		Participant1:    userID,
		Participant2:    recipientID,
		LastMessageText: text,
		LastMessageAt:   &now,
		LastMessageBy:   userID,
	}
	if err := uc.convRepo.Create(ctx, conv); err != nil {
		return "", err
	}
	if _, err := uc.msgRepo.Create(ctx, &domain.Message{
		ConversationID: conv.ID,
		SenderID:       userID,
		Content:        text,
	}); err != nil {
		return "", err
	}
	return conv.ID, nil
}

// DeleteConversations removes the given threads and their messages. The
// batch is all-or-nothing: the first backend failure stops the loop and
// leaves the local cache untouched, since dropping only some rows locally
// would desynchronize the list from backend truth.
func (uc *MessagingUseCase) DeleteConversations(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := uc.msgRepo.DeleteByConversation(ctx, id); err != nil {
			return err
		}
		if err := uc.convRepo.Delete(ctx, id); err != nil {
			return err
		}
	}

	deleted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		deleted[id] = struct{}{}
	}
	kept := uc.conversations[:0]
	for _, summary := range uc.conversations {
		if _, gone := deleted[summary.ID]; !gone {
			kept = append(kept, summary)
		}
	}
	uc.conversations = kept
	if _, gone := deleted[uc.openID]; gone {
		uc.CloseThread()
	}
	// No re-fetch here: trusting local state keeps just-removed threads
	// from flickering back while the backend catches up.
	return nil
}

// DeleteMessages removes the given messages from the open thread with the
// same all-or-nothing batch semantics as DeleteConversations.
func (uc *MessagingUseCase) DeleteMessages(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := uc.msgRepo.Delete(ctx, id); err != nil {
			return err
		}
	}

	deleted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		deleted[id] = struct{}{}
	}
	kept := uc.messages[:0]
	for _, msg := range uc.messages {
		if _, gone := deleted[msg.ID]; !gone {
			kept = append(kept, msg)
		}
	}
	uc.messages = kept
	return nil
}
