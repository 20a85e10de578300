package model

import (
	"errors"
	"time"
)

// User represents a user in the system
type User struct {
	ID             string    `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	DisplayName    string    `db:"display_name" json:"display_name"`
	Email          string    `db:"email" json:"email"`
	AvatarURL      *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	Bio            *string   `db:"bio" json:"bio,omitempty"`
	Website        *string   `db:"website" json:"website,omitempty"`
	Location       *string   `db:"location" json:"location,omitempty"`
	JoinedAt       time.Time `db:"joined_at" json:"joined_at"`
	FollowersCount int       `db:"followers_count" json:"followers_count"`
	FollowingCount int       `db:"following_count" json:"following_count"`
	PostsCount     int       `db:"posts_count" json:"posts_count"`
	IsVerified     bool      `db:"is_verified" json:"is_verified"`
	IsFollowing    bool      `db:"-" json:"is_following"`
}

// AuthUser is a User plus the auth token issued for the running session.
type AuthUser struct {
	User
	AuthToken string `json:"token"`
}

// UserUpdate carries the editable profile fields for a shallow merge into
// the current session's user. Nil fields are left untouched.
type UserUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Website     *string `json:"website,omitempty"`
	Location    *string `json:"location,omitempty"`
}

// SignupRequest represents the data needed to register a new user
type SignupRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to sign up with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthenticated is returned when an operation requires a signed-in user
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Merge applies the non-nil fields of the update to a copy of the user.
func (u User) Merge(update UserUpdate) User {
	if update.DisplayName != nil {
		u.DisplayName = *update.DisplayName
	}
	if update.AvatarURL != nil {
		u.AvatarURL = update.AvatarURL
	}
	if update.Bio != nil {
		u.Bio = update.Bio
	}
	if update.Website != nil {
		u.Website = update.Website
	}
	if update.Location != nil {
		u.Location = update.Location
	}
	return u
}
