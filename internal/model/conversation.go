package model

import (
	"errors"
	"time"
)

// Conversation represents a direct-message thread between exactly two users.
// Messages are chronological and append-only; UpdatedAt always equals the
// CreatedAt of the most recent message.
type Conversation struct {
	ID           string    `db:"id" json:"id"`
	Participants [2]User   `json:"participants"`
	Messages     []Message `json:"messages"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Message represents a single direct message inside a conversation.
type Message struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	SenderID       string    `db:"sender_id" json:"sender_id"`
	ReceiverID     string    `db:"receiver_id" json:"receiver_id"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	IsRead         bool      `db:"is_read" json:"is_read"`
}

// Conversation errors
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("message content is required")
	ErrNotParticipant       = errors.New("user is not a participant")
)

// LastMessage returns the most recent message and true, or a zero Message
// and false for a conversation with no messages yet.
func (c Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// OtherParticipant returns the participant that is not the given user.
func (c Conversation) OtherParticipant(userID string) (User, error) {
	switch userID {
	case c.Participants[0].ID:
		return c.Participants[1], nil
	case c.Participants[1].ID:
		return c.Participants[0], nil
	default:
		return User{}, ErrNotParticipant
	}
}

// HasUnreadFor reports whether the conversation's most recent message is
// unread and addressed to the given user. The conversation store's global
// unread count is the number of conversations for which this holds.
func (c Conversation) HasUnreadFor(userID string) bool {
	last, ok := c.LastMessage()
	if !ok {
		return false
	}
	return !last.IsRead && last.ReceiverID == userID
}
