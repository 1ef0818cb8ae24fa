// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// OAuthProvider identifies which OAuth provider a user signed up with.
type OAuthProvider string

const (
	// OAuthProviderGoogle indicates a Google OAuth account.
	OAuthProviderGoogle OAuthProvider = "google"
	// OAuthProviderGitHub indicates a GitHub OAuth account.
	OAuthProviderGitHub OAuthProvider = "github"
)

// User represents a user in the TalkX application.
// TweetCount is denormalized: it is incremented and decremented alongside tweet
// creation and deletion, never recomputed from a scan on the read path.
type User struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Username      string        `gorm:"unique;not null" json:"username"`
	Email         string        `gorm:"not null" json:"email"`
	OAuthProvider OAuthProvider `gorm:"type:varchar(20);not null;uniqueIndex:idx_oauth_identity" json:"-"`
	OAuthID       string        `gorm:"not null;uniqueIndex:idx_oauth_identity" json:"-"`
	AvatarURL     string        `json:"avatar_url"`
	Bio           string        `gorm:"size:160" json:"bio"`
	// Onboarded is a dedicated flag rather than inferring "new user" from an
	// empty bio; a user who clears their bio stays onboarded.
	Onboarded  bool      `gorm:"default:false" json:"onboarded"`
	TweetCount int       `gorm:"default:0;check:tweet_count >= 0" json:"tweet_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SafeUser is the public projection of a User returned inside API responses.
type SafeUser struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	AvatarURL  string    `json:"avatar_url"`
	Bio        string    `json:"bio"`
	TweetCount int       `json:"tweet_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Safe returns the public projection of the user.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		AvatarURL:  u.AvatarURL,
		Bio:        u.Bio,
		TweetCount: u.TweetCount,
		CreatedAt:  u.CreatedAt,
	}
}

// Profile is a user profile view annotated with social-graph data for a viewer.
type Profile struct {
	SafeUser
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
	// IsFollowing is present only when the profile was fetched with a viewer context.
	IsFollowing *bool `json:"is_following,omitempty"`
}
