package repository

import (
	"context"
	"time"

	"github.com/ERSinclair/haven/internal/domain"
)

type ConversationRepository interface {
	// ListForUser returns every conversation the user participates in, on
	// either side of the pair.
	ListForUser(ctx context.Context, userID string) ([]*domain.Conversation, error)
	// GetByParticipants looks the pair up in either order and returns
	// domain.ErrConversationNotFound when no thread exists yet.
	GetByParticipants(ctx context.Context, a, b string) (*domain.Conversation, error)
	Create(ctx context.Context, conv *domain.Conversation) error
	// UpdateLastMessage refreshes the denormalized last-message cache.
	UpdateLastMessage(ctx context.Context, id, text, by string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type MessageRepository interface {
	// ListByConversation returns the thread's messages ordered by creation
	// time ascending.
	ListByConversation(ctx context.Context, conversationID string) ([]*domain.Message, error)
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	Delete(ctx context.Context, id string) error
	// DeleteByConversation removes a thread's messages ahead of deleting
	// the conversation row itself.
	DeleteByConversation(ctx context.Context, conversationID string) error
}
