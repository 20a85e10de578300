package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"resona/internal/model"
)

// PostgresSource implements the source interfaces over a relational backend.
// It exists to prove the fetch contract is substitutable: the stores run
// unchanged against it. viewerID binds perspective-dependent fields
// (is_liked) to the authenticated user.
type PostgresSource struct {
	db       *sqlx.DB
	viewerID string
}

// NewPostgresSource creates a source reading from the given database on
// behalf of the viewer.
func NewPostgresSource(db *sqlx.DB, viewerID string) *PostgresSource {
	return &PostgresSource{db: db, viewerID: viewerID}
}

type postRow struct {
	ID            string    `db:"id"`
	Type          string    `db:"type"`
	AuthorID      string    `db:"author_id"`
	Content       string    `db:"content"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	LikesCount    int       `db:"likes_count"`
	CommentsCount int       `db:"comments_count"`
	SharesCount   int       `db:"shares_count"`
	IsLiked       bool      `db:"is_liked"`

	ReviewTitle         sql.NullString `db:"review_title"`
	ReviewRating        sql.NullInt64  `db:"review_rating"`
	ReviewImageURL      sql.NullString `db:"review_image_url"`
	SongTitle           sql.NullString `db:"song_title"`
	SongArtist          sql.NullString `db:"song_artist"`
	SongThumbnailURL    sql.NullString `db:"song_thumbnail_url"`
	SongDurationSeconds sql.NullInt64  `db:"song_duration_seconds"`
}

func (s *PostgresSource) FetchPosts(ctx context.Context, q Query) ([]model.Post, error) {
	query := `
		SELECT p.id, p.type, p.author_id, p.content, p.created_at, p.updated_at,
		       p.likes_count, p.comments_count, p.shares_count,
		       EXISTS (
		           SELECT 1 FROM post_likes pl
		           WHERE pl.post_id = p.id AND pl.user_id = $1
		       ) AS is_liked,
		       p.review_title, p.review_rating, p.review_image_url,
		       p.song_title, p.song_artist, p.song_thumbnail_url, p.song_duration_seconds
		FROM posts p
	`
	args := []interface{}{s.viewerID}
	if q.View == model.FeedViewProfile && q.AuthorID != "" {
		query += ` WHERE p.author_id = $2`
		args = append(args, q.AuthorID)
	}
	query += ` ORDER BY p.created_at DESC`

	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}

	authorIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		authorIDs = append(authorIDs, r.AuthorID)
	}
	authors, err := s.getUsers(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	posts := make([]model.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.toPost(authors[r.AuthorID]))
	}
	return posts, nil
}

func (r postRow) toPost(author model.User) model.Post {
	post := model.Post{
		ID:            r.ID,
		Type:          r.Type,
		Author:        author,
		Content:       r.Content,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		LikesCount:    r.LikesCount,
		CommentsCount: r.CommentsCount,
		SharesCount:   r.SharesCount,
		IsLiked:       r.IsLiked,
	}

	switch r.Type {
	case model.PostTypeReview:
		post.Review = &model.ReviewDetails{
			Title:  r.ReviewTitle.String,
			Rating: int(r.ReviewRating.Int64),
		}
		if r.ReviewImageURL.Valid {
			url := r.ReviewImageURL.String
			post.Review.ImageURL = &url
		}
	case model.PostTypeSong:
		post.Song = &model.SongDetails{
			Title: r.SongTitle.String,
		}
		if r.SongArtist.Valid {
			artist := r.SongArtist.String
			post.Song.Artist = &artist
		}
		if r.SongThumbnailURL.Valid {
			thumb := r.SongThumbnailURL.String
			post.Song.ThumbnailURL = &thumb
		}
		if r.SongDurationSeconds.Valid {
			duration := int(r.SongDurationSeconds.Int64)
			post.Song.DurationSeconds = &duration
		}
	}
	return post
}

// ConfirmLike persists the state the client optimistically moved to, in one
// transaction with the count adjustment.
func (s *PostgresSource) ConfirmLike(ctx context.Context, postID string, liked bool) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if liked {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, s.viewerID)
		if err != nil {
			return fmt.Errorf("insert like: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			if _, err := tx.ExecContext(ctx,
				`UPDATE posts SET likes_count = likes_count + 1 WHERE id = $1`, postID); err != nil {
				return fmt.Errorf("increment like count: %w", err)
			}
		}
	} else {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, s.viewerID)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			if _, err := tx.ExecContext(ctx,
				`UPDATE posts SET likes_count = likes_count - 1 WHERE id = $1`, postID); err != nil {
				return fmt.Errorf("decrement like count: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type notificationRow struct {
	ID         string         `db:"id"`
	Type       string         `db:"type"`
	FromUserID string         `db:"from_user_id"`
	PostID     sql.NullString `db:"post_id"`
	Message    string         `db:"message"`
	CreatedAt  time.Time      `db:"created_at"`
	IsRead     bool           `db:"is_read"`
}

func (s *PostgresSource) FetchNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	var rows []notificationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, type, from_user_id, post_id, message, created_at, is_read
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}

	actorIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		actorIDs = append(actorIDs, r.FromUserID)
	}
	actors, err := s.getUsers(ctx, actorIDs)
	if err != nil {
		return nil, err
	}

	notifications := make([]model.Notification, 0, len(rows))
	for _, r := range rows {
		n := model.Notification{
			ID:        r.ID,
			Type:      r.Type,
			FromUser:  actors[r.FromUserID],
			Message:   r.Message,
			CreatedAt: r.CreatedAt,
			IsRead:    r.IsRead,
		}
		if r.PostID.Valid {
			postID := r.PostID.String
			n.PostID = &postID
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

type conversationRow struct {
	ID           string    `db:"id"`
	ParticipantA string    `db:"participant_a"`
	ParticipantB string    `db:"participant_b"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (s *PostgresSource) FetchConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	var rows []conversationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, participant_a, participant_b, updated_at
		FROM conversations
		WHERE participant_a = $1 OR participant_b = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select conversations: %w", err)
	}

	userIDs := make([]string, 0, 2*len(rows))
	convIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		userIDs = append(userIDs, r.ParticipantA, r.ParticipantB)
		convIDs = append(convIDs, r.ID)
	}
	users, err := s.getUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	messages, err := s.getMessages(ctx, convIDs)
	if err != nil {
		return nil, err
	}

	conversations := make([]model.Conversation, 0, len(rows))
	for _, r := range rows {
		conversations = append(conversations, model.Conversation{
			ID:           r.ID,
			Participants: [2]model.User{users[r.ParticipantA], users[r.ParticipantB]},
			Messages:     messages[r.ID],
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return conversations, nil
}

// getUsers batch-fetches users by id.
func (s *PostgresSource) getUsers(ctx context.Context, ids []string) (map[string]model.User, error) {
	users := make(map[string]model.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var rows []model.User
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, username, display_name, email, avatar_url, bio, website, location,
		       joined_at, followers_count, following_count, posts_count, is_verified
		FROM users
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	for _, u := range rows {
		users[u.ID] = u
	}
	return users, nil
}

// getMessages batch-fetches messages grouped by conversation, oldest first
// so each slice is already chronological.
func (s *PostgresSource) getMessages(ctx context.Context, conversationIDs []string) (map[string][]model.Message, error) {
	messages := make(map[string][]model.Message, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return messages, nil
	}

	var rows []model.Message
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, conversation_id, sender_id, receiver_id, content, created_at, is_read
		FROM messages
		WHERE conversation_id = ANY($1)
		ORDER BY created_at ASC
	`, pq.Array(conversationIDs))
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}

	for _, m := range rows {
		messages[m.ConversationID] = append(messages[m.ConversationID], m)
	}
	return messages, nil
}
