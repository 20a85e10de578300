package store

import (
	"context"
	"log"
	"sync"

	"resona/internal/model"
	"resona/internal/source"
)

// NotificationStore owns the inbound activity notifications and the derived
// unread count. The count is a cached derivation of the collection and is
// recomputed inside the same critical section as every mutation, so no
// observable state ever shows the two diverging.
type NotificationStore struct {
	mu       sync.Mutex
	source   source.NotificationSource
	identity Identity

	notifications []model.Notification
	unreadCount   int
	loading       bool
	lastErr       error
}

// NewNotificationStore creates an empty notification store.
func NewNotificationStore(notifSource source.NotificationSource, identity Identity) *NotificationStore {
	return &NotificationStore{source: notifSource, identity: identity}
}

// Refresh loads the notification collection. A failed fetch leaves the prior
// collection in place and records the error.
func (s *NotificationStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	userID := s.identity.CurrentUserID()
	notifications, err := s.source.FetchNotifications(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err
		log.Printf("[NotificationStore] Refresh FAILED: err=%v", err)
		return err
	}

	s.lastErr = nil
	s.notifications = notifications
	s.unreadCount = model.CountUnread(s.notifications)
	log.Printf("[NotificationStore] Refresh OK: count=%d unread=%d", len(notifications), s.unreadCount)
	return nil
}

// MarkRead marks one notification as read. Duplicate calls on an already
// read id are harmless no-ops; the unread count never goes below zero.
func (s *NotificationStore) MarkRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID != id {
			continue
		}
		if !s.notifications[i].IsRead {
			s.notifications[i].IsRead = true
			s.unreadCount = model.CountUnread(s.notifications)
		}
		return
	}
}

// MarkAllRead marks every notification as read.
func (s *NotificationStore) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		s.notifications[i].IsRead = true
	}
	s.unreadCount = 0
}

// Apply delivers an externally created notification into the store. New
// activity arrives most-recent-first.
func (s *NotificationStore) Apply(n model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append([]model.Notification{n}, s.notifications...)
	s.unreadCount = model.CountUnread(s.notifications)
	log.Printf("[NotificationStore] Apply OK: notification=%s type=%s unread=%d", n.ID, n.Type, s.unreadCount)
}

// Notifications returns the collection snapshot.
func (s *NotificationStore) Notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// UnreadCount returns the cached unread derivation.
func (s *NotificationStore) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unreadCount
}

// IsLoading reports whether a refresh is in flight.
func (s *NotificationStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
