package source

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"resona/internal/model"
)

func TestFixtureSource_FetchPosts_HomeReturnsAllDescending(t *testing.T) {
	s := NewFixtureSource(DefaultFixtures(), 0)

	posts, err := s.FetchPosts(context.Background(), Query{View: model.FeedViewHome})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("posts = %d, want 3", len(posts))
	}
	if !sort.SliceIsSorted(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	}) {
		t.Error("posts not in descending recency order")
	}
}

func TestFixtureSource_FetchPosts_ProfileFiltersByAuthor(t *testing.T) {
	s := NewFixtureSource(DefaultFixtures(), 0)

	posts, err := s.FetchPosts(context.Background(), Query{View: model.FeedViewProfile, AuthorID: "user-sarah"})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Author.ID != "user-sarah" {
		t.Fatalf("unexpected profile feed: %+v", posts)
	}
}

func TestFixtureSource_Delay_RespectsContext(t *testing.T) {
	s := NewFixtureSource(DefaultFixtures(), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := s.FetchPosts(ctx, Query{View: model.FeedViewHome})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want %v", err, context.Canceled)
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled fetch should resume immediately")
	}
}

func TestFixtureSource_FailNextFetch_ConsumedOnce(t *testing.T) {
	s := NewFixtureSource(DefaultFixtures(), 0)
	injected := errors.New("simulated outage")
	s.FailNextFetch(injected)

	if _, err := s.FetchNotifications(context.Background(), "user-jordan"); !errors.Is(err, injected) {
		t.Errorf("error = %v, want %v", err, injected)
	}
	// The injection is one-shot.
	if _, err := s.FetchNotifications(context.Background(), "user-jordan"); err != nil {
		t.Errorf("second fetch should succeed, got %v", err)
	}
}

func TestFixtureSource_ConfirmLike(t *testing.T) {
	s := NewFixtureSource(DefaultFixtures(), 0)

	if err := s.ConfirmLike(context.Background(), "post-1", true); err != nil {
		t.Errorf("confirm failed: %v", err)
	}

	injected := errors.New("simulated rejection")
	s.FailNextConfirm(injected)
	if err := s.ConfirmLike(context.Background(), "post-1", false); !errors.Is(err, injected) {
		t.Errorf("error = %v, want %v", err, injected)
	}
	if err := s.ConfirmLike(context.Background(), "post-1", false); err != nil {
		t.Errorf("injection should be one-shot, got %v", err)
	}
}

func TestFixtureSource_FetchConversations_FiltersByParticipant(t *testing.T) {
	s := NewFixtureSource(DefaultFixtures(), 0)

	conversations, err := s.FetchConversations(context.Background(), "user-jordan")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("conversations = %d, want 2", len(conversations))
	}

	// A non-participant sees nothing.
	other, err := s.FetchConversations(context.Background(), "user-maya")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("user-maya conversations = %d, want 0", len(other))
	}
}

func TestFixtureSource_FetchConversations_CopiesMessages(t *testing.T) {
	s := NewFixtureSource(DefaultFixtures(), 0)
	ctx := context.Background()

	first, err := s.FetchConversations(ctx, "user-jordan")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	first[0].Messages[0].Content = "tampered"

	second, err := s.FetchConversations(ctx, "user-jordan")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if second[0].Messages[0].Content == "tampered" {
		t.Error("fetched conversations alias fixture memory")
	}
}

func TestDefaultFixtures_Shape(t *testing.T) {
	set := DefaultFixtures()

	if len(set.Users) != 4 {
		t.Errorf("users = %d, want 4", len(set.Users))
	}
	if model.CountUnread(set.Notifications) != 2 {
		t.Errorf("unread notifications = %d, want 2", model.CountUnread(set.Notifications))
	}

	for _, p := range set.Posts {
		switch p.Type {
		case model.PostTypeText:
			if p.Review != nil || p.Song != nil {
				t.Errorf("text post %s carries a payload", p.ID)
			}
		case model.PostTypeReview:
			if p.Review == nil || p.Song != nil {
				t.Errorf("review post %s payload mismatch", p.ID)
			}
		case model.PostTypeSong:
			if p.Song == nil || p.Review != nil {
				t.Errorf("song post %s payload mismatch", p.ID)
			}
		default:
			t.Errorf("post %s has unknown type %q", p.ID, p.Type)
		}
	}

	for _, c := range set.Conversations {
		last, ok := c.LastMessage()
		if !ok {
			t.Errorf("conversation %s has no messages", c.ID)
			continue
		}
		if !c.UpdatedAt.Equal(last.CreatedAt) {
			t.Errorf("conversation %s UpdatedAt drifted from last message", c.ID)
		}
		for _, m := range c.Messages {
			if m.ConversationID != c.ID {
				t.Errorf("message %s owned by %s, found in %s", m.ID, m.ConversationID, c.ID)
			}
		}
	}
}
