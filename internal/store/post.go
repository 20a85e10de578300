package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"resona/internal/model"
	"resona/internal/source"
)

// Identity is the session-store surface the domain stores read the current
// user from. Reads happen by value; stores never mutate the session.
type Identity interface {
	CurrentUserID() string
	CurrentUser() (model.User, bool)
}

// PostStore owns the post feed for one view parameterization. Fetches are
// asynchronous and guarded by a monotonic generation counter: a response
// belonging to a superseded parameterization is discarded, never committed.
type PostStore struct {
	mu       sync.Mutex
	source   source.PostSource
	identity Identity

	gen     uint64
	query   source.Query
	posts   []model.Post
	loading bool
	wg      sync.WaitGroup
	lastErr error
}

// NewPostStore creates an empty post store. Call SetQuery to load a feed.
func NewPostStore(postSource source.PostSource, identity Identity) *PostStore {
	return &PostStore{source: postSource, identity: identity}
}

// SetQuery (re)parameterizes the store and triggers an asynchronous fetch.
// A newer call supersedes any in-flight fetch's effect on state.
func (s *PostStore) SetQuery(ctx context.Context, view, authorID string) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.query = source.Query{View: view, AuthorID: authorID}
	q := s.query
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	s.wg.Add(1)
	go s.fetch(ctx, gen, q)
}

// fetch suspends at the source call and commits the result only when its
// generation is still the latest issued.
func (s *PostStore) fetch(ctx context.Context, gen uint64, q source.Query) {
	defer s.wg.Done()

	posts, err := s.source.FetchPosts(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		log.Printf("[PostStore] Fetch superseded: gen=%d latest=%d view=%s", gen, s.gen, q.View)
		return
	}

	s.loading = false
	if err != nil {
		// Prior feed stays visible; the operation is marked errored.
		s.lastErr = err
		log.Printf("[PostStore] Fetch FAILED: view=%s err=%v", q.View, err)
		return
	}

	s.posts = posts
	log.Printf("[PostStore] Fetch OK: view=%s count=%d", q.View, len(posts))
}

// Wait blocks until all issued fetches and like confirmations have settled.
// Test and demo helper; consumers normally poll IsLoading or re-render on
// their own cadence.
func (s *PostStore) Wait() {
	s.wg.Wait()
}

// Posts returns the feed snapshot, most recent first.
func (s *PostStore) Posts() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePosts(s.posts)
}

// IsLoading reports whether the latest parameterization is still in flight.
func (s *PostStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the failure of the latest settled fetch, if any.
func (s *PostStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ToggleLike optimistically flips the liked flag and adjusts the like count
// by exactly one for the matching post, in a single update. Confirmation is
// fire-and-forget through the source; a failed confirmation applies the
// inverse delta.
func (s *PostStore) ToggleLike(postID string) error {
	s.mu.Lock()
	idx := s.indexLocked(postID)
	if idx < 0 {
		s.mu.Unlock()
		return model.ErrPostNotFound
	}

	post := &s.posts[idx]
	post.IsLiked = !post.IsLiked
	if post.IsLiked {
		post.LikesCount++
	} else {
		post.LikesCount--
	}
	liked := post.IsLiked
	s.mu.Unlock()

	s.wg.Add(1)
	go s.confirmLike(postID, liked)
	return nil
}

func (s *PostStore) confirmLike(postID string, liked bool) {
	defer s.wg.Done()

	if err := s.source.ConfirmLike(context.Background(), postID, liked); err != nil {
		log.Printf("[PostStore] ConfirmLike FAILED, rolling back: post=%s err=%v", postID, err)
		s.mu.Lock()
		defer s.mu.Unlock()
		idx := s.indexLocked(postID)
		if idx < 0 {
			return
		}
		post := &s.posts[idx]
		post.IsLiked = !liked
		if liked {
			post.LikesCount--
		} else {
			post.LikesCount++
		}
	}
}

// CreatePost validates the draft, synthesizes a post owned by the current
// session user with zeroed counters, and prepends it to the feed. Creation
// time is now, which is never earlier than any existing entry, so the
// descending order holds without a re-sort.
func (s *PostStore) CreatePost(draft model.PostDraft) (model.Post, error) {
	if err := draft.Validate(); err != nil {
		return model.Post{}, err
	}

	author, ok := s.identity.CurrentUser()
	if !ok {
		return model.Post{}, model.ErrNotAuthenticated
	}

	now := time.Now().UTC()
	post := model.Post{
		ID:        uuid.NewString(),
		Type:      draft.Type,
		Author:    author,
		Content:   draft.Content,
		CreatedAt: now,
		UpdatedAt: now,
		Review:    cloneReview(draft.Review),
		Song:      cloneSong(draft.Song),
	}

	s.mu.Lock()
	s.posts = append([]model.Post{post}, s.posts...)
	s.mu.Unlock()

	log.Printf("[PostStore] CreatePost OK: post=%s type=%s author=%s", post.ID, post.Type, author.ID)
	return post, nil
}

func (s *PostStore) indexLocked(postID string) int {
	for i := range s.posts {
		if s.posts[i].ID == postID {
			return i
		}
	}
	return -1
}

func clonePosts(posts []model.Post) []model.Post {
	out := make([]model.Post, len(posts))
	copy(out, posts)
	for i := range out {
		out[i].Review = cloneReview(out[i].Review)
		out[i].Song = cloneSong(out[i].Song)
	}
	return out
}

func cloneReview(r *model.ReviewDetails) *model.ReviewDetails {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

func cloneSong(sd *model.SongDetails) *model.SongDetails {
	if sd == nil {
		return nil
	}
	cp := *sd
	return &cp
}
