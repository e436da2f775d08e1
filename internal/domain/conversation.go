package domain

import "time"

// Conversation is a two-party thread. The participant pair is unordered:
// (A,B) and (B,A) name the same conversation. The last_message_* fields are
// a denormalized cache updated together with every message insert.
type Conversation struct {
	ID              string     `json:"id,omitempty"`
	Participant1    string     `json:"participant_1"`
	Participant2    string     `json:"participant_2"`
	LastMessageText string     `json:"last_message_text,omitempty"`
	LastMessageAt   *time.Time `json:"last_message_at,omitempty"`
	LastMessageBy   string     `json:"last_message_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at,omitempty"`
}

func (c *Conversation) HasParticipant(profileID string) bool {
	return c.Participant1 == profileID || c.Participant2 == profileID
}

func (c *Conversation) OtherParticipant(profileID string) (string, bool) {
	if c.Participant1 == profileID {
		return c.Participant2, true
	}
	if c.Participant2 == profileID {
		return c.Participant1, true
	}
	return "", false
}

// UnreadFor reports whether the thread has activity the given user has not
// produced. The backend has no per-message read receipts the client relies
// on; unread is derived from who spoke last.
func (c *Conversation) UnreadFor(profileID string) bool {
	return c.LastMessageBy != "" && c.LastMessageBy != profileID
}
