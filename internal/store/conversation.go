package store

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"resona/internal/model"
	"resona/internal/source"
)

// ConversationStore owns the direct-message conversations for the current
// user. Message sequences are append-only and chronological; the global
// unread count is the number of conversations whose most recent message is
// unread and addressed to the current user. Which conversation is open is a
// presentation concern the store does not track.
type ConversationStore struct {
	mu       sync.Mutex
	source   source.ConversationSource
	identity Identity

	conversations []model.Conversation
	unreadCount   int
	loading       bool
	lastErr       error
}

// NewConversationStore creates an empty conversation store.
func NewConversationStore(convSource source.ConversationSource, identity Identity) *ConversationStore {
	return &ConversationStore{source: convSource, identity: identity}
}

// Refresh loads all conversations for the current user. A failed fetch
// leaves the prior collection in place and records the error.
func (s *ConversationStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	userID := s.identity.CurrentUserID()
	conversations, err := s.source.FetchConversations(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err
		log.Printf("[ConversationStore] Refresh FAILED: err=%v", err)
		return err
	}

	s.lastErr = nil
	s.conversations = conversations
	s.recomputeUnreadLocked()
	log.Printf("[ConversationStore] Refresh OK: count=%d unread=%d", len(conversations), s.unreadCount)
	return nil
}

// SendMessage appends a message from the current user to the conversation.
// Empty (after trimming) content or an unresolvable conversation id leaves
// the store untouched; the condition is reported to the caller rather than
// being fatal.
func (s *ConversationStore) SendMessage(conversationID, content string) error {
	if strings.TrimSpace(content) == "" {
		return model.ErrEmptyMessage
	}

	senderID := s.identity.CurrentUserID()
	if senderID == "" {
		return model.ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(conversationID)
	if idx < 0 {
		log.Printf("[ConversationStore] SendMessage: conversation=%s not found", conversationID)
		return model.ErrConversationNotFound
	}

	conv := &s.conversations[idx]
	receiver, err := conv.OtherParticipant(senderID)
	if err != nil {
		return err
	}

	msg := model.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		ReceiverID:     receiver.ID,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.CreatedAt
	s.recomputeUnreadLocked()

	log.Printf("[ConversationStore] SendMessage OK: conversation=%s message=%s", conv.ID, msg.ID)
	return nil
}

// ApplyIncoming delivers an externally created message into its owning
// conversation. Messages for unknown conversations are reported and
// dropped.
func (s *ConversationStore) ApplyIncoming(msg model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(msg.ConversationID)
	if idx < 0 {
		log.Printf("[ConversationStore] ApplyIncoming: conversation=%s not found", msg.ConversationID)
		return model.ErrConversationNotFound
	}

	conv := &s.conversations[idx]
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.CreatedAt
	s.recomputeUnreadLocked()

	log.Printf("[ConversationStore] ApplyIncoming OK: conversation=%s message=%s unread=%d",
		conv.ID, msg.ID, s.unreadCount)
	return nil
}

// MarkConversationRead marks every message addressed to the current user in
// the conversation as read. Unknown ids are a no-op.
func (s *ConversationStore) MarkConversationRead(conversationID string) {
	userID := s.identity.CurrentUserID()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(conversationID)
	if idx < 0 {
		return
	}

	conv := &s.conversations[idx]
	for i := range conv.Messages {
		if conv.Messages[i].ReceiverID == userID {
			conv.Messages[i].IsRead = true
		}
	}
	s.recomputeUnreadLocked()
}

// Conversations returns the collection snapshot, most recently active first.
func (s *ConversationStore) Conversations() []model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Conversation, len(s.conversations))
	copy(out, s.conversations)
	for i := range out {
		msgs := make([]model.Message, len(out[i].Messages))
		copy(msgs, out[i].Messages)
		out[i].Messages = msgs
	}
	return out
}

// Conversation returns a snapshot of one conversation.
func (s *ConversationStore) Conversation(conversationID string) (model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(conversationID)
	if idx < 0 {
		return model.Conversation{}, false
	}

	conv := s.conversations[idx]
	msgs := make([]model.Message, len(conv.Messages))
	copy(msgs, conv.Messages)
	conv.Messages = msgs
	return conv, true
}

// UnreadCount returns the number of conversations with an unread last
// message addressed to the current user.
func (s *ConversationStore) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unreadCount
}

// IsLoading reports whether a refresh is in flight.
func (s *ConversationStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *ConversationStore) indexLocked(conversationID string) int {
	for i := range s.conversations {
		if s.conversations[i].ID == conversationID {
			return i
		}
	}
	return -1
}

func (s *ConversationStore) recomputeUnreadLocked() {
	userID := s.identity.CurrentUserID()
	count := 0
	for _, c := range s.conversations {
		if c.HasUnreadFor(userID) {
			count++
		}
	}
	s.unreadCount = count
}
