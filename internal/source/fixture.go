package source

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"resona/internal/model"
)

// FixtureSet holds the static collections served by the fixture source.
type FixtureSet struct {
	Users         []model.User
	Posts         []model.Post
	Notifications []model.Notification
	Conversations []model.Conversation
}

// FixtureSource serves static fixtures behind an artificial delay. It
// implements PostSource, NotificationSource and ConversationSource, standing
// in for a real backend during development and tests.
type FixtureSource struct {
	mu      sync.Mutex
	set     FixtureSet
	latency time.Duration

	fetchErr   error // injected failure, consumed by the next fetch
	confirmErr error // injected failure, consumed by the next ConfirmLike
}

// NewFixtureSource creates a fixture source over the given set. latency is
// applied to every fetch to simulate a network round trip.
func NewFixtureSource(set FixtureSet, latency time.Duration) *FixtureSource {
	return &FixtureSource{set: set, latency: latency}
}

// FailNextFetch makes the next fetch on any collection return err.
func (s *FixtureSource) FailNextFetch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr = err
}

// FailNextConfirm makes the next ConfirmLike return err.
func (s *FixtureSource) FailNextConfirm(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmErr = err
}

// delay simulates the single suspend point of a fetch. It resumes early if
// the context is cancelled.
func (s *FixtureSource) delay(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *FixtureSource) takeFetchErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.fetchErr
	s.fetchErr = nil
	return err
}

func (s *FixtureSource) FetchPosts(ctx context.Context, q Query) ([]model.Post, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	if err := s.takeFetchErr(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]model.Post, 0, len(s.set.Posts))
	for _, p := range s.set.Posts {
		if q.View == model.FeedViewProfile && q.AuthorID != "" && p.Author.ID != q.AuthorID {
			continue
		}
		posts = append(posts, p)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return posts, nil
}

func (s *FixtureSource) ConfirmLike(ctx context.Context, postID string, liked bool) error {
	if err := s.delay(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.confirmErr; err != nil {
		s.confirmErr = nil
		log.Printf("[FixtureSource] ConfirmLike FAILED: post=%s liked=%v err=%v", postID, liked, err)
		return err
	}

	// The fixture backend accepts every confirmation.
	return nil
}

func (s *FixtureSource) FetchNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	if err := s.takeFetchErr(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notifications := make([]model.Notification, len(s.set.Notifications))
	copy(notifications, s.set.Notifications)

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	return notifications, nil
}

func (s *FixtureSource) FetchConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	if err := s.takeFetchErr(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conversations := make([]model.Conversation, 0, len(s.set.Conversations))
	for _, c := range s.set.Conversations {
		if c.Participants[0].ID != userID && c.Participants[1].ID != userID {
			continue
		}
		// Deep-copy the message slice; the stores own their collections
		// exclusively and must not alias fixture memory.
		cp := c
		cp.Messages = make([]model.Message, len(c.Messages))
		copy(cp.Messages, c.Messages)
		conversations = append(conversations, cp)
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})

	return conversations, nil
}
