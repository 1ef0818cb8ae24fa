package models

import (
	"time"
)

// MaxTweetLength is the maximum tweet content length in runes after trimming.
const MaxTweetLength = 280

// Tweet represents a short text update authored by a user.
// LikeCount is denormalized and maintained alongside like edge writes.
type Tweet struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index:idx_author_created,priority:1" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"-"`
	Content  string `gorm:"size:280;not null" json:"content"`
	LikeCount int   `gorm:"default:0;check:like_count >= 0" json:"like_count"`
	IsEdited  bool  `gorm:"default:false" json:"is_edited"`
	// Edits holds prior content snapshots, oldest first.
	Edits []TweetEdit `gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE" json:"edits,omitempty"`
	// Liked indicates whether the requesting user liked this tweet (computed,
	// present in responses only when a viewer context exists).
	Liked     *bool     `gorm:"-" json:"liked,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_author_created,priority:2,sort:desc;index:idx_created,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// AuthorSafe is the populated author projection used on the wire.
	AuthorSafe *SafeUser `gorm:"-" json:"author,omitempty"`
}

// Resolve populates the wire-level author projection from the preloaded Author.
func (t *Tweet) Resolve() {
	if t.Author.ID != 0 {
		safe := t.Author.Safe()
		t.AuthorSafe = &safe
	}
}

// TweetEdit is a pre-edit content snapshot kept for the edit history.
type TweetEdit struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	TweetID  uint      `gorm:"not null;index" json:"-"`
	Content  string    `gorm:"size:280;not null" json:"content"`
	EditedAt time.Time `gorm:"not null" json:"edited_at"`
}
