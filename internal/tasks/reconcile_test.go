package tasks

import (
	"context"
	"testing"

	"talkx/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReconcilerDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tweet{},
		&models.TweetEdit{},
		&models.Follow{},
		&models.Like{},
	))
	return db
}

func TestReconcilerRepairsDrift(t *testing.T) {
	db := setupReconcilerDB(t)
	ctx := context.Background()

	author := &models.User{
		Username:      "drifter",
		Email:         "drifter@example.com",
		OAuthProvider: models.OAuthProviderGoogle,
		OAuthID:       "oauth-drifter",
	}
	require.NoError(t, db.Create(author).Error)

	liker := &models.User{
		Username:      "liker",
		Email:         "liker@example.com",
		OAuthProvider: models.OAuthProviderGoogle,
		OAuthID:       "oauth-liker",
	}
	require.NoError(t, db.Create(liker).Error)

	tweet := &models.Tweet{AuthorID: author.ID, Content: "counted"}
	require.NoError(t, db.Create(tweet).Error)
	require.NoError(t, db.Create(&models.Like{UserID: liker.ID, TweetID: tweet.ID}).Error)

	// Inject drift the write path would never produce.
	require.NoError(t, db.Model(author).Update("tweet_count", 9).Error)
	require.NoError(t, db.Model(tweet).Update("like_count", 0).Error)

	r := NewReconciler(db, 0)
	require.NoError(t, r.RunOnce(ctx))

	var gotUser models.User
	require.NoError(t, db.First(&gotUser, author.ID).Error)
	assert.Equal(t, 1, gotUser.TweetCount)

	var gotTweet models.Tweet
	require.NoError(t, db.First(&gotTweet, tweet.ID).Error)
	assert.Equal(t, 1, gotTweet.LikeCount)
}

func TestReconcilerIsIdempotent(t *testing.T) {
	db := setupReconcilerDB(t)
	ctx := context.Background()

	author := &models.User{
		Username:      "steady",
		Email:         "steady@example.com",
		OAuthProvider: models.OAuthProviderGoogle,
		OAuthID:       "oauth-steady",
		TweetCount:    1,
	}
	require.NoError(t, db.Create(author).Error)
	require.NoError(t, db.Create(&models.Tweet{AuthorID: author.ID, Content: "stable"}).Error)

	r := NewReconciler(db, 0)
	repaired, err := r.reconcileTweetCounts(ctx)
	require.NoError(t, err)
	assert.Zero(t, repaired)

	repaired, err = r.reconcileLikeCounts(ctx)
	require.NoError(t, err)
	assert.Zero(t, repaired)
}

func TestNewReconcilerDefaultsInterval(t *testing.T) {
	r := NewReconciler(nil, 0)
	assert.Positive(t, r.interval)
}
