package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"resona/internal/model"
	"resona/internal/source"
)

// stubPostSource implements source.PostSource with func fields so each test
// controls timing and failure of the remote seam.
type stubPostSource struct {
	fetchFn   func(ctx context.Context, q source.Query) ([]model.Post, error)
	confirmFn func(ctx context.Context, postID string, liked bool) error
}

func (s *stubPostSource) FetchPosts(ctx context.Context, q source.Query) ([]model.Post, error) {
	if s.fetchFn != nil {
		return s.fetchFn(ctx, q)
	}
	return nil, nil
}

func (s *stubPostSource) ConfirmLike(ctx context.Context, postID string, liked bool) error {
	if s.confirmFn != nil {
		return s.confirmFn(ctx, postID, liked)
	}
	return nil
}

// stubIdentity is a fixed current-user for the domain stores.
type stubIdentity struct {
	user model.User
	ok   bool
}

func (s *stubIdentity) CurrentUserID() string {
	if !s.ok {
		return ""
	}
	return s.user.ID
}

func (s *stubIdentity) CurrentUser() (model.User, bool) {
	return s.user, s.ok
}

func feedOf(ids ...string) []model.Post {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := make([]model.Post, len(ids))
	for i, id := range ids {
		posts[i] = model.Post{
			ID:         id,
			Type:       model.PostTypeText,
			Author:     model.User{ID: "author-" + id, Username: "author_" + id},
			Content:    "post " + id,
			CreatedAt:  base.Add(-time.Duration(i) * time.Hour),
			LikesCount: 10,
		}
	}
	return posts
}

func signedIn() *stubIdentity {
	return &stubIdentity{user: testUser(), ok: true}
}

func TestPostStore_SetQuery_LoadsFeed(t *testing.T) {
	src := &stubPostSource{
		fetchFn: func(ctx context.Context, q source.Query) ([]model.Post, error) {
			if q.View != model.FeedViewHome {
				t.Errorf("query view = %q, want %q", q.View, model.FeedViewHome)
			}
			return feedOf("post-1", "post-2"), nil
		},
	}
	s := NewPostStore(src, signedIn())

	s.SetQuery(context.Background(), model.FeedViewHome, "")
	s.Wait()

	if s.IsLoading() {
		t.Error("expected loading false after settle")
	}
	posts := s.Posts()
	if len(posts) != 2 || posts[0].ID != "post-1" {
		t.Fatalf("unexpected feed: %+v", posts)
	}
}

func TestPostStore_SetQuery_FetchErrorKeepsPriorFeed(t *testing.T) {
	calls := 0
	src := &stubPostSource{
		fetchFn: func(ctx context.Context, q source.Query) ([]model.Post, error) {
			calls++
			if calls == 1 {
				return feedOf("post-1"), nil
			}
			return nil, errors.New("network down")
		},
	}
	s := NewPostStore(src, signedIn())

	s.SetQuery(context.Background(), model.FeedViewHome, "")
	s.Wait()
	s.SetQuery(context.Background(), model.FeedViewExplore, "")
	s.Wait()

	if s.Err() == nil {
		t.Error("expected recorded fetch error")
	}
	if posts := s.Posts(); len(posts) != 1 || posts[0].ID != "post-1" {
		t.Errorf("prior feed should survive a failed fetch, got %+v", posts)
	}
}

func TestPostStore_StaleFetchIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	profileDone := make(chan struct{})
	src := &stubPostSource{
		fetchFn: func(ctx context.Context, q source.Query) ([]model.Post, error) {
			if q.View == model.FeedViewHome {
				<-gate
				return feedOf("home-1", "home-2"), nil
			}
			defer close(profileDone)
			return feedOf("profile-1"), nil
		},
	}
	s := NewPostStore(src, signedIn())

	// The home fetch suspends; a profile parameterization supersedes it.
	s.SetQuery(context.Background(), model.FeedViewHome, "")
	s.SetQuery(context.Background(), model.FeedViewProfile, "user-1")
	<-profileDone

	// Release the stale response only after the fresh one committed.
	close(gate)
	s.Wait()

	posts := s.Posts()
	if len(posts) != 1 || posts[0].ID != "profile-1" {
		t.Fatalf("stale home response leaked into the feed: %+v", posts)
	}
	if s.IsLoading() {
		t.Error("expected loading false after both fetches settle")
	}
}

func TestPostStore_ToggleLike_Roundtrip(t *testing.T) {
	src := &stubPostSource{
		fetchFn: func(ctx context.Context, q source.Query) ([]model.Post, error) {
			return feedOf("post-1"), nil
		},
	}
	s := NewPostStore(src, signedIn())
	s.SetQuery(context.Background(), model.FeedViewHome, "")
	s.Wait()

	if err := s.ToggleLike("post-1"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	got := s.Posts()[0]
	if !got.IsLiked || got.LikesCount != 11 {
		t.Errorf("after like: liked=%v count=%d, want true/11", got.IsLiked, got.LikesCount)
	}

	if err := s.ToggleLike("post-1"); err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	got = s.Posts()[0]
	if got.IsLiked || got.LikesCount != 10 {
		t.Errorf("after unlike: liked=%v count=%d, want false/10", got.IsLiked, got.LikesCount)
	}
	s.Wait()
}

func TestPostStore_ToggleLike_UnknownPost(t *testing.T) {
	s := NewPostStore(&stubPostSource{}, signedIn())
	if err := s.ToggleLike("missing"); !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}

func TestPostStore_ToggleLike_ConfirmFailureRollsBack(t *testing.T) {
	src := &stubPostSource{
		fetchFn: func(ctx context.Context, q source.Query) ([]model.Post, error) {
			return feedOf("post-1"), nil
		},
		confirmFn: func(ctx context.Context, postID string, liked bool) error {
			return errors.New("confirm rejected")
		},
	}
	s := NewPostStore(src, signedIn())
	s.SetQuery(context.Background(), model.FeedViewHome, "")
	s.Wait()

	if err := s.ToggleLike("post-1"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	s.Wait()

	got := s.Posts()[0]
	if got.IsLiked || got.LikesCount != 10 {
		t.Errorf("rollback not applied: liked=%v count=%d, want false/10", got.IsLiked, got.LikesCount)
	}
}

func TestPostStore_CreatePost_PrependsWithZeroedCounters(t *testing.T) {
	src := &stubPostSource{
		fetchFn: func(ctx context.Context, q source.Query) ([]model.Post, error) {
			return feedOf("post-1"), nil
		},
	}
	identity := signedIn()
	s := NewPostStore(src, identity)
	s.SetQuery(context.Background(), model.FeedViewHome, "")
	s.Wait()

	created, err := s.CreatePost(model.PostDraft{Type: model.PostTypeText, Content: "hello world"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated post id")
	}
	if created.Author.ID != identity.user.ID {
		t.Errorf("author = %q, want %q", created.Author.ID, identity.user.ID)
	}
	if created.LikesCount != 0 || created.CommentsCount != 0 || created.SharesCount != 0 || created.IsLiked {
		t.Errorf("expected zeroed engagement state, got %+v", created)
	}

	posts := s.Posts()
	if len(posts) != 2 || posts[0].ID != created.ID {
		t.Fatalf("new post must lead the feed, got %+v", posts)
	}
	if posts[0].CreatedAt.Before(posts[1].CreatedAt) {
		t.Error("descending recency order violated")
	}
}

func TestPostStore_CreatePost_ValidationRejectsAndPreservesFeed(t *testing.T) {
	src := &stubPostSource{
		fetchFn: func(ctx context.Context, q source.Query) ([]model.Post, error) {
			return feedOf("post-1"), nil
		},
	}
	s := NewPostStore(src, signedIn())
	s.SetQuery(context.Background(), model.FeedViewHome, "")
	s.Wait()

	cases := []struct {
		name    string
		draft   model.PostDraft
		wantErr error
	}{
		{"whitespace content", model.PostDraft{Type: model.PostTypeText, Content: "   \n\t"}, model.ErrEmptyContent},
		{"content over limit", model.PostDraft{Type: model.PostTypeText, Content: strings.Repeat("x", model.MaxPostContentLength+1)}, model.ErrContentTooLong},
		{"unknown type", model.PostDraft{Type: "poll", Content: "pick one"}, model.ErrInvalidPostType},
		{"review without payload", model.PostDraft{Type: model.PostTypeReview, Content: "great spot"}, model.ErrMissingReviewTitle},
		{"review rating too high", model.PostDraft{Type: model.PostTypeReview, Content: "great spot", Review: &model.ReviewDetails{Title: "Cafe", Rating: 6}}, model.ErrInvalidRating},
		{"review rating too low", model.PostDraft{Type: model.PostTypeReview, Content: "great spot", Review: &model.ReviewDetails{Title: "Cafe", Rating: 0}}, model.ErrInvalidRating},
		{"song without title", model.PostDraft{Type: model.PostTypeSong, Content: "new single", Song: &model.SongDetails{}}, model.ErrMissingSongTitle},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreatePost(tc.draft)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}

	if posts := s.Posts(); len(posts) != 1 {
		t.Errorf("feed changed by rejected drafts: %+v", posts)
	}
}

func TestPostStore_CreatePost_ContentAtLimitAccepted(t *testing.T) {
	s := NewPostStore(&stubPostSource{}, signedIn())

	content := strings.Repeat("ü", model.MaxPostContentLength)
	if _, err := s.CreatePost(model.PostDraft{Type: model.PostTypeText, Content: content}); err != nil {
		t.Errorf("rune-counted content at the limit should pass, got %v", err)
	}
}

func TestPostStore_CreatePost_Unauthenticated(t *testing.T) {
	s := NewPostStore(&stubPostSource{}, &stubIdentity{})

	_, err := s.CreatePost(model.PostDraft{Type: model.PostTypeText, Content: "hi"})
	if !errors.Is(err, model.ErrNotAuthenticated) {
		t.Errorf("error = %v, want %v", err, model.ErrNotAuthenticated)
	}
}

func TestPostStore_Posts_SnapshotIsolated(t *testing.T) {
	src := &stubPostSource{
		fetchFn: func(ctx context.Context, q source.Query) ([]model.Post, error) {
			posts := feedOf("post-1")
			posts[0].Type = model.PostTypeReview
			posts[0].Review = &model.ReviewDetails{Title: "Cafe", Rating: 4}
			return posts, nil
		},
	}
	s := NewPostStore(src, signedIn())
	s.SetQuery(context.Background(), model.FeedViewHome, "")
	s.Wait()

	snap := s.Posts()
	snap[0].LikesCount = 999
	snap[0].Review.Rating = 1

	got := s.Posts()[0]
	if got.LikesCount == 999 || got.Review.Rating == 1 {
		t.Error("snapshot mutation leaked into the store")
	}
}
