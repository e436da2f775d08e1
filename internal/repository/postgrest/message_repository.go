package postgrest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ERSinclair/haven/internal/domain"
	"github.com/ERSinclair/haven/internal/repository"
)

type MessageRepository struct {
	client *Client
}

func NewMessageRepository(client *Client) repository.MessageRepository {
	return &MessageRepository{client: client}
}

func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	query := url.Values{}
	query.Set("conversation_id", eq(conversationID))
	query.Set("select", "*")
	query.Set("order", "created_at.asc")

	var rows []*domain.Message
	if err := r.client.Select(ctx, "messages", query, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return rows, nil
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	var rows []*domain.Message
	if err := r.client.Insert(ctx, "messages", msg, &rows); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("backend returned no representation for created message")
	}
	return rows[0], nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", eq(id))
	if err := r.client.Delete(ctx, "messages", query); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", id, err)
	}
	return nil
}

func (r *MessageRepository) DeleteByConversation(ctx context.Context, conversationID string) error {
	query := url.Values{}
	query.Set("conversation_id", eq(conversationID))
	if err := r.client.Delete(ctx, "messages", query); err != nil {
		return fmt.Errorf("failed to delete messages for conversation %s: %w", conversationID, err)
	}
	return nil
}
