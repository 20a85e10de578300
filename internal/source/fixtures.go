package source

import (
	"time"

	"resona/internal/model"
)

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

// DefaultFixtures returns the handcrafted development data set: a signed-in
// user, three creators, a small mixed feed, a few notifications and two
// conversations. IDs are stable so the demo binary and docs can refer to
// them.
func DefaultFixtures() FixtureSet {
	self := model.User{
		ID:             "user-jordan",
		Username:       "jordanblake",
		DisplayName:    "Jordan Blake",
		Email:          "jordan@resona.dev",
		AvatarURL:      strptr("https://cdn.resona.dev/avatars/jordan.jpg"),
		Bio:            strptr("Creator, musician, and coffee enthusiast"),
		JoinedAt:       time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		FollowersCount: 1250,
		FollowingCount: 340,
		PostsCount:     89,
	}

	alex := model.User{
		ID:             "user-alex",
		Username:       "musiclover",
		DisplayName:    "Alex Chen",
		Email:          "alex@resona.dev",
		AvatarURL:      strptr("https://cdn.resona.dev/avatars/alex.jpg"),
		JoinedAt:       time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC),
		FollowersCount: 890,
		FollowingCount: 234,
		PostsCount:     67,
		IsVerified:     true,
	}

	sarah := model.User{
		ID:             "user-sarah",
		Username:       "coffeecritic",
		DisplayName:    "Sarah Williams",
		Email:          "sarah@resona.dev",
		AvatarURL:      strptr("https://cdn.resona.dev/avatars/sarah.jpg"),
		JoinedAt:       time.Date(2022, 11, 20, 0, 0, 0, 0, time.UTC),
		FollowersCount: 1540,
		FollowingCount: 412,
		PostsCount:     156,
	}

	maya := model.User{
		ID:             "user-maya",
		Username:       "indiemusician",
		DisplayName:    "Maya Rodriguez",
		Email:          "maya@resona.dev",
		AvatarURL:      strptr("https://cdn.resona.dev/avatars/maya.jpg"),
		JoinedAt:       time.Date(2023, 8, 5, 0, 0, 0, 0, time.UTC),
		FollowersCount: 2340,
		FollowingCount: 189,
		PostsCount:     89,
		IsVerified:     true,
	}

	posts := []model.Post{
		{
			ID:            "post-1",
			Type:          model.PostTypeText,
			Author:        alex,
			Content:       "Just discovered this amazing indie band! Their sound is absolutely incredible.",
			CreatedAt:     time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			LikesCount:    24,
			CommentsCount: 5,
			SharesCount:   3,
		},
		{
			ID:            "post-2",
			Type:          model.PostTypeReview,
			Author:        sarah,
			Content:       "Loved this coffee shop. The atmosphere was perfect for working, and the baristas really know their craft.",
			CreatedAt:     time.Date(2024, 1, 14, 16, 20, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2024, 1, 14, 16, 20, 0, 0, time.UTC),
			LikesCount:    18,
			CommentsCount: 7,
			SharesCount:   2,
			IsLiked:       true,
			Review: &model.ReviewDetails{
				Title:    "Blue Bottle Coffee - Oakland",
				Rating:   5,
				ImageURL: strptr("https://cdn.resona.dev/reviews/blue-bottle.jpg"),
			},
		},
		{
			ID:            "post-3",
			Type:          model.PostTypeSong,
			Author:        maya,
			Content:       "A new track I've been working on, inspired by quiet mornings.",
			CreatedAt:     time.Date(2024, 1, 13, 9, 15, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2024, 1, 13, 9, 15, 0, 0, time.UTC),
			LikesCount:    47,
			CommentsCount: 12,
			SharesCount:   8,
			Song: &model.SongDetails{
				Title:           "Morning Light",
				Artist:          strptr("Maya Rodriguez"),
				ThumbnailURL:    strptr("https://cdn.resona.dev/songs/morning-light.jpg"),
				DurationSeconds: intptr(180),
			},
		},
	}

	notifications := []model.Notification{
		{
			ID:        "notif-1",
			Type:      model.NotificationTypeLike,
			FromUser:  alex,
			PostID:    strptr("post-1"),
			Message:   "liked your post",
			CreatedAt: time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC),
		},
		{
			ID:        "notif-2",
			Type:      model.NotificationTypeFollow,
			FromUser:  sarah,
			Message:   "started following you",
			CreatedAt: time.Date(2024, 1, 15, 12, 15, 0, 0, time.UTC),
		},
		{
			ID:        "notif-3",
			Type:      model.NotificationTypeComment,
			FromUser:  maya,
			PostID:    strptr("post-2"),
			Message:   "commented on your review",
			CreatedAt: time.Date(2024, 1, 14, 18, 45, 0, 0, time.UTC),
			IsRead:    true,
		},
	}

	conversations := []model.Conversation{
		{
			ID:           "conv-1",
			Participants: [2]model.User{self, alex},
			Messages: []model.Message{
				{
					ID:             "msg-1",
					ConversationID: "conv-1",
					SenderID:       alex.ID,
					ReceiverID:     self.ID,
					Content:        "Hey! Loved your latest song post. The melody is incredible!",
					CreatedAt:      time.Date(2024, 1, 15, 16, 30, 0, 0, time.UTC),
				},
			},
			UpdatedAt: time.Date(2024, 1, 15, 16, 30, 0, 0, time.UTC),
		},
		{
			ID:           "conv-2",
			Participants: [2]model.User{self, sarah},
			Messages: []model.Message{
				{
					ID:             "msg-2",
					ConversationID: "conv-2",
					SenderID:       self.ID,
					ReceiverID:     sarah.ID,
					Content:        "Thanks for the coffee shop recommendation, I'll check it out.",
					CreatedAt:      time.Date(2024, 1, 14, 14, 20, 0, 0, time.UTC),
					IsRead:         true,
				},
			},
			UpdatedAt: time.Date(2024, 1, 14, 14, 20, 0, 0, time.UTC),
		},
	}

	return FixtureSet{
		Users:         []model.User{self, alex, sarah, maya},
		Posts:         posts,
		Notifications: notifications,
		Conversations: conversations,
	}
}
