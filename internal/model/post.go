package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Post types
const (
	PostTypeText   = "text"
	PostTypeReview = "review"
	PostTypeSong   = "song"
)

// Post limits
const (
	MaxPostContentLength = 280
	MinReviewRating      = 1
	MaxReviewRating      = 5
)

// Post represents a single feed entry. Exactly one of Review/Song is set,
// matching Type; both are nil for text posts.
type Post struct {
	ID            string    `db:"id" json:"id"`
	Type          string    `db:"type" json:"type"`
	Author        User      `json:"author"`
	Content       string    `db:"content" json:"content"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
	LikesCount    int       `db:"likes_count" json:"likes_count"`
	CommentsCount int       `db:"comments_count" json:"comments_count"`
	SharesCount   int       `db:"shares_count" json:"shares_count"`
	IsLiked       bool      `db:"-" json:"is_liked"`

	Review *ReviewDetails `json:"review,omitempty"`
	Song   *SongDetails   `json:"song,omitempty"`
}

// ReviewDetails is the payload for review posts.
type ReviewDetails struct {
	Title    string  `db:"review_title" json:"title"`
	Rating   int     `db:"review_rating" json:"rating"` // 1..5
	ImageURL *string `db:"review_image_url" json:"image_url,omitempty"`
}

// SongDetails is the payload for song posts.
type SongDetails struct {
	Title           string  `db:"song_title" json:"title"`
	Artist          *string `db:"song_artist" json:"artist,omitempty"`
	ThumbnailURL    *string `db:"song_thumbnail_url" json:"thumbnail_url,omitempty"`
	DurationSeconds *int    `db:"song_duration_seconds" json:"duration_seconds,omitempty"`
}

// PostDraft is the caller-supplied input for creating a post.
type PostDraft struct {
	Type    string         `json:"type"`
	Content string         `json:"content"`
	Review  *ReviewDetails `json:"review,omitempty"`
	Song    *SongDetails   `json:"song,omitempty"`
}

// Feed views
const (
	FeedViewHome    = "home"
	FeedViewExplore = "explore"
	FeedViewProfile = "profile"
)

// Post errors
var (
	ErrPostNotFound       = errors.New("post not found")
	ErrEmptyContent       = errors.New("post content is required")
	ErrContentTooLong     = errors.New("post content too long")
	ErrInvalidPostType    = errors.New("invalid post type")
	ErrMissingReviewTitle = errors.New("review title is required")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrMissingSongTitle   = errors.New("song title is required")
)

// Validate checks the draft against the creation preconditions. It reports
// the first violated precondition and leaves ordering stable so callers can
// surface a single actionable error.
func (d PostDraft) Validate() error {
	if strings.TrimSpace(d.Content) == "" {
		return ErrEmptyContent
	}
	if utf8.RuneCountInString(d.Content) > MaxPostContentLength {
		return ErrContentTooLong
	}

	switch d.Type {
	case PostTypeText:
		return nil
	case PostTypeReview:
		if d.Review == nil || strings.TrimSpace(d.Review.Title) == "" {
			return ErrMissingReviewTitle
		}
		if d.Review.Rating < MinReviewRating || d.Review.Rating > MaxReviewRating {
			return ErrInvalidRating
		}
		return nil
	case PostTypeSong:
		if d.Song == nil || strings.TrimSpace(d.Song.Title) == "" {
			return ErrMissingSongTitle
		}
		return nil
	default:
		return ErrInvalidPostType
	}
}
