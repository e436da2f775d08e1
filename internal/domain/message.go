package domain

import "time"

// Message belongs to exactly one conversation and is immutable once
// created, except for deletion. Threads order messages by creation time
// ascending.
type Message struct {
	ID             string     `json:"id,omitempty"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	Content        string     `json:"content"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at,omitempty"`
}
