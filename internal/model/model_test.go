package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestUser_Merge(t *testing.T) {
	bio := "original bio"
	u := User{
		ID:          "user-1",
		Username:    "tester",
		DisplayName: "Test User",
		Email:       "tester@example.com",
		Bio:         &bio,
		PostsCount:  12,
	}

	newName := "Renamed"
	newBio := "new bio"
	merged := u.Merge(UserUpdate{DisplayName: &newName, Bio: &newBio})

	if merged.DisplayName != newName {
		t.Errorf("display name = %q, want %q", merged.DisplayName, newName)
	}
	if merged.Bio == nil || *merged.Bio != newBio {
		t.Errorf("bio = %v, want %q", merged.Bio, newBio)
	}
	if merged.Username != u.Username || merged.Email != u.Email || merged.PostsCount != u.PostsCount {
		t.Error("fields absent from the update must be untouched")
	}
	// The receiver is not mutated.
	if u.DisplayName != "Test User" || *u.Bio != bio {
		t.Error("merge mutated the original user")
	}

	// An empty update is a no-op.
	if same := u.Merge(UserUpdate{}); same.DisplayName != u.DisplayName || same.Bio != u.Bio {
		t.Error("empty update changed the user")
	}
}

func TestPostDraft_Validate(t *testing.T) {
	cases := []struct {
		name    string
		draft   PostDraft
		wantErr error
	}{
		{"valid text", PostDraft{Type: PostTypeText, Content: "hello"}, nil},
		{"valid review", PostDraft{Type: PostTypeReview, Content: "good", Review: &ReviewDetails{Title: "Cafe", Rating: 3}}, nil},
		{"valid song", PostDraft{Type: PostTypeSong, Content: "new drop", Song: &SongDetails{Title: "Morning Light"}}, nil},
		{"empty content", PostDraft{Type: PostTypeText, Content: ""}, ErrEmptyContent},
		{"whitespace content", PostDraft{Type: PostTypeText, Content: " \t\n"}, ErrEmptyContent},
		{"too long", PostDraft{Type: PostTypeText, Content: strings.Repeat("a", MaxPostContentLength+1)}, ErrContentTooLong},
		{"multibyte at limit", PostDraft{Type: PostTypeText, Content: strings.Repeat("é", MaxPostContentLength)}, nil},
		{"review missing title", PostDraft{Type: PostTypeReview, Content: "good", Review: &ReviewDetails{Rating: 3}}, ErrMissingReviewTitle},
		{"review blank title", PostDraft{Type: PostTypeReview, Content: "good", Review: &ReviewDetails{Title: "  ", Rating: 3}}, ErrMissingReviewTitle},
		{"rating zero", PostDraft{Type: PostTypeReview, Content: "good", Review: &ReviewDetails{Title: "Cafe"}}, ErrInvalidRating},
		{"song nil payload", PostDraft{Type: PostTypeSong, Content: "new drop"}, ErrMissingSongTitle},
		{"unknown type", PostDraft{Type: "story", Content: "hi"}, ErrInvalidPostType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestConversation_Helpers(t *testing.T) {
	jordan := User{ID: "user-jordan"}
	alex := User{ID: "user-alex"}
	at := time.Date(2024, 1, 15, 16, 30, 0, 0, time.UTC)

	conv := Conversation{
		ID:           "conv-1",
		Participants: [2]User{jordan, alex},
		Messages: []Message{
			{ID: "msg-1", SenderID: jordan.ID, ReceiverID: alex.ID, CreatedAt: at.Add(-time.Minute), IsRead: true},
			{ID: "msg-2", SenderID: alex.ID, ReceiverID: jordan.ID, CreatedAt: at},
		},
		UpdatedAt: at,
	}

	last, ok := conv.LastMessage()
	if !ok || last.ID != "msg-2" {
		t.Errorf("last message = %v/%v, want msg-2", last.ID, ok)
	}

	other, err := conv.OtherParticipant(jordan.ID)
	if err != nil || other.ID != alex.ID {
		t.Errorf("other participant = %v (%v), want %s", other.ID, err, alex.ID)
	}
	other, err = conv.OtherParticipant(alex.ID)
	if err != nil || other.ID != jordan.ID {
		t.Errorf("other participant = %v (%v), want %s", other.ID, err, jordan.ID)
	}
	if _, err := conv.OtherParticipant("user-stranger"); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("error = %v, want %v", err, ErrNotParticipant)
	}

	if !conv.HasUnreadFor(jordan.ID) {
		t.Error("unread inbound last message should count for jordan")
	}
	if conv.HasUnreadFor(alex.ID) {
		t.Error("alex sent the last message; nothing unread for them")
	}

	empty := Conversation{ID: "conv-empty", Participants: [2]User{jordan, alex}}
	if _, ok := empty.LastMessage(); ok {
		t.Error("empty conversation has no last message")
	}
	if empty.HasUnreadFor(jordan.ID) {
		t.Error("empty conversation cannot be unread")
	}
}

func TestCountUnread(t *testing.T) {
	if got := CountUnread(nil); got != 0 {
		t.Errorf("count of nil = %d, want 0", got)
	}
	notifications := []Notification{
		{ID: "n1"},
		{ID: "n2", IsRead: true},
		{ID: "n3"},
	}
	if got := CountUnread(notifications); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
}
