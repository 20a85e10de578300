// Package source defines the asynchronous boundary between the domain stores
// and whatever produces their collections. In this scope the default
// implementation is fixture-backed with an artificial delay; the interfaces
// are the seam a real backend integration replaces.
package source

import (
	"context"

	"resona/internal/model"
)

// Query selects the slice of the post collection a fetch returns.
type Query struct {
	View     string // model.FeedViewHome, model.FeedViewExplore, model.FeedViewProfile
	AuthorID string // filters to one author when View is profile
}

// PostSource produces the post feed and confirms optimistic like toggles.
type PostSource interface {
	// FetchPosts returns the feed for the query, sorted by CreatedAt
	// descending.
	FetchPosts(ctx context.Context, q Query) ([]model.Post, error)

	// ConfirmLike is the fire-and-forget confirmation seam behind the
	// optimistic like toggle. liked is the state the client moved to.
	ConfirmLike(ctx context.Context, postID string, liked bool) error
}

// NotificationSource produces the notification collection for a user.
type NotificationSource interface {
	FetchNotifications(ctx context.Context, userID string) ([]model.Notification, error)
}

// ConversationSource produces the conversations a user participates in.
type ConversationSource interface {
	FetchConversations(ctx context.Context, userID string) ([]model.Conversation, error)
}
