package postgrest

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ERSinclair/haven/internal/domain"
	"github.com/ERSinclair/haven/internal/repository"
)

type ConversationRepository struct {
	client *Client
}

func NewConversationRepository(client *Client) repository.ConversationRepository {
	return &ConversationRepository{client: client}
}

func (r *ConversationRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	query := url.Values{}
	query.Set("or", fmt.Sprintf("(participant_1.eq.%s,participant_2.eq.%s)", userID, userID))
	query.Set("select", "*")
	query.Set("order", "last_message_at.desc.nullslast")

	var rows []*domain.Conversation
	if err := r.client.Select(ctx, "conversations", query, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}
	return rows, nil
}

func (r *ConversationRepository) GetByParticipants(ctx context.Context, a, b string) (*domain.Conversation, error) {
	// The pair is unordered: match both participant orders in one call.
	query := url.Values{}
	query.Set("or", fmt.Sprintf(
		"(and(participant_1.eq.%s,participant_2.eq.%s),and(participant_1.eq.%s,participant_2.eq.%s))",
		a, b, b, a,
	))
	query.Set("select", "*")

	var rows []*domain.Conversation
	if err := r.client.Select(ctx, "conversations", query, &rows); err != nil {
		return nil, fmt.Errorf("failed to look up conversation: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrConversationNotFound
	}
	return rows[0], nil
}

func (r *ConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	var rows []*domain.Conversation
	if err := r.client.Insert(ctx, "conversations", conv, &rows); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("backend returned no representation for created conversation")
	}
	*conv = *rows[0]
	return nil
}

func (r *ConversationRepository) UpdateLastMessage(ctx context.Context, id, text, by string, at time.Time) error {
	query := url.Values{}
	query.Set("id", eq(id))
	fields := map[string]any{
		"last_message_text": text,
		"last_message_at":   at.UTC().Format(time.RFC3339),
		"last_message_by":   by,
	}
	if err := r.client.Update(ctx, "conversations", query, fields); err != nil {
		return fmt.Errorf("failed to update last message cache: %w", err)
	}
	return nil
}

func (r *ConversationRepository) Delete(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", eq(id))
	if err := r.client.Delete(ctx, "conversations", query); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}
