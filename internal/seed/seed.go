// Package seed provides helpers to generate demo and test data for the
// fixture-backed remote source. These helpers are intended for development
// and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"resona/internal/model"
)

// Factory builds randomized domain entities. Deterministic for a given
// seed value, so tests relying on generated data are reproducible.
type Factory struct {
	faker *gofakeit.Faker
	rand  *rand.Rand
	now   time.Time
}

// NewFactory creates a new Factory seeded with the given value.
func NewFactory(seedValue int64) *Factory {
	return &Factory{
		faker: gofakeit.New(seedValue),
		rand:  rand.New(rand.NewSource(seedValue)),
		now:   time.Now().UTC(),
	}
}

// User builds a creator profile with a realistic social footprint.
func (f *Factory) User() model.User {
	avatar := fmt.Sprintf("https://cdn.resona.dev/avatars/%s.jpg", f.faker.Username())
	bio := f.faker.Sentence(8)
	return model.User{
		ID:             uuid.NewString(),
		Username:       f.faker.Username(),
		DisplayName:    f.faker.Name(),
		Email:          f.faker.Email(),
		AvatarURL:      &avatar,
		Bio:            &bio,
		JoinedAt:       f.pastTime(720),
		FollowersCount: f.rand.Intn(5000),
		FollowingCount: f.rand.Intn(1000),
		PostsCount:     f.rand.Intn(300),
		IsVerified:     f.rand.Intn(10) == 0,
	}
}

// Post builds a post of a random type authored by the given user.
func (f *Factory) Post(author model.User) model.Post {
	createdAt := f.pastTime(90 * 24)
	post := model.Post{
		ID:            uuid.NewString(),
		Type:          model.PostTypeText,
		Author:        author,
		Content:       f.faker.Sentence(12),
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
		LikesCount:    f.rand.Intn(200),
		CommentsCount: f.rand.Intn(40),
		SharesCount:   f.rand.Intn(20),
	}

	switch f.rand.Intn(3) {
	case 1:
		image := fmt.Sprintf("https://cdn.resona.dev/reviews/%s.jpg", uuid.NewString())
		post.Type = model.PostTypeReview
		post.Review = &model.ReviewDetails{
			Title:    f.faker.Company(),
			Rating:   model.MinReviewRating + f.rand.Intn(model.MaxReviewRating-model.MinReviewRating+1),
			ImageURL: &image,
		}
	case 2:
		artist := f.faker.Name()
		thumb := fmt.Sprintf("https://cdn.resona.dev/songs/%s.jpg", uuid.NewString())
		duration := 60 + f.rand.Intn(300)
		post.Type = model.PostTypeSong
		post.Song = &model.SongDetails{
			Title:           f.faker.HipsterWord() + " " + f.faker.NounAbstract(),
			Artist:          &artist,
			ThumbnailURL:    &thumb,
			DurationSeconds: &duration,
		}
	}

	return post
}

// Notification builds an unread notification from the given actor.
func (f *Factory) Notification(from model.User, postID *string) model.Notification {
	types := []string{
		model.NotificationTypeLike,
		model.NotificationTypeComment,
		model.NotificationTypeFollow,
		model.NotificationTypeMention,
	}
	notifType := types[f.rand.Intn(len(types))]

	var message string
	switch notifType {
	case model.NotificationTypeLike:
		message = "liked your post"
	case model.NotificationTypeComment:
		message = "commented on your post"
	case model.NotificationTypeFollow:
		message = "started following you"
		postID = nil
	case model.NotificationTypeMention:
		message = "mentioned you in a post"
	}

	return model.Notification{
		ID:        uuid.NewString(),
		Type:      notifType,
		FromUser:  from,
		PostID:    postID,
		Message:   message,
		CreatedAt: f.pastTime(72),
	}
}

// Conversation builds a two-party thread with a short message history.
// Message timestamps ascend and the conversation UpdatedAt matches the last.
func (f *Factory) Conversation(a, b model.User, messageCount int) model.Conversation {
	if messageCount <= 0 {
		messageCount = 1 + f.rand.Intn(5)
	}

	conv := model.Conversation{
		ID:           uuid.NewString(),
		Participants: [2]model.User{a, b},
	}

	at := f.pastTime(14 * 24)
	for i := 0; i < messageCount; i++ {
		sender, receiver := a, b
		if f.rand.Intn(2) == 1 {
			sender, receiver = b, a
		}
		msg := model.Message{
			ID:             uuid.NewString(),
			ConversationID: conv.ID,
			SenderID:       sender.ID,
			ReceiverID:     receiver.ID,
			Content:        f.faker.Sentence(6),
			CreatedAt:      at,
			IsRead:         i < messageCount-1,
		}
		conv.Messages = append(conv.Messages, msg)
		conv.UpdatedAt = msg.CreatedAt
		at = at.Add(time.Duration(1+f.rand.Intn(120)) * time.Minute)
	}

	return conv
}

// Feed builds count posts by freshly generated authors.
func (f *Factory) Feed(count int) []model.Post {
	posts := make([]model.Post, 0, count)
	for i := 0; i < count; i++ {
		posts = append(posts, f.Post(f.User()))
	}
	return posts
}

func (f *Factory) pastTime(maxHoursBack int) time.Time {
	if maxHoursBack <= 0 {
		maxHoursBack = 1
	}
	back := time.Duration(f.rand.Intn(maxHoursBack*60)) * time.Minute
	return f.now.Add(-back)
}
