package model

import (
	"time"
)

// Notification types
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
	NotificationTypeMention = "mention"
)

// Notification represents a single inbound activity notification.
// Notifications are created externally; the only local mutation is the
// unread-to-read transition.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	Type      string    `db:"type" json:"type"`
	FromUser  User      `json:"from_user"`
	PostID    *string   `db:"post_id" json:"post_id,omitempty"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	IsRead    bool      `db:"is_read" json:"is_read"`
}

// CountUnread returns the number of unread notifications in the given slice.
// Derived counts held by the notification store must always agree with it.
func CountUnread(notifications []Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}
