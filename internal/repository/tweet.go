package repository

import (
	"context"
	"errors"
	"time"

	"talkx/internal/cache"
	"talkx/internal/models"

	"gorm.io/gorm"
)

// TweetRepository defines the interface for tweet data operations.
// Writes that touch a denormalized counter run both statements inside a
// single transaction so the counter cannot drift from the edge count.
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Tweet, error)
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.Tweet, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Tweet, error)
	ListByAuthors(ctx context.Context, authorIDs []uint, limit int) ([]*models.Tweet, error)
	Update(ctx context.Context, tweet *models.Tweet, snapshot *models.TweetEdit) error
	Delete(ctx context.Context, tweet *models.Tweet) error
}

// tweetRepository implements TweetRepository
type tweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository creates a new tweet repository
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tweet).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", tweet.AuthorID).
			Update("tweet_count", gorm.Expr("tweet_count + 1")).Error
	})
	if err != nil {
		return storeErr(err)
	}
	cache.InvalidateUser(ctx, tweet.AuthorID)
	cache.InvalidateDiscoverFeed(ctx)
	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Tweet, error) {
	var tweet models.Tweet
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Edits", func(db *gorm.DB) *gorm.DB {
			return db.Order("edited_at ASC")
		}).
		First(&tweet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Tweet", id)
		}
		return nil, storeErr(err)
	}

	if viewerID != 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Like{}).
			Where("user_id = ? AND tweet_id = ?", viewerID, id).
			Count(&count).Error; err != nil {
			return nil, storeErr(err)
		}
		liked := count > 0
		tweet.Liked = &liked
	}

	tweet.Resolve()
	return &tweet, nil
}

func (r *tweetRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.Tweet, error) {
	var tweets []*models.Tweet
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&tweets).Error
	if err != nil {
		return nil, storeErr(err)
	}
	resolveAll(tweets)
	return tweets, nil
}

func (r *tweetRepository) ListRecent(ctx context.Context, limit int) ([]*models.Tweet, error) {
	var tweets []*models.Tweet
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&tweets).Error
	if err != nil {
		return nil, storeErr(err)
	}
	resolveAll(tweets)
	return tweets, nil
}

func (r *tweetRepository) ListByAuthors(ctx context.Context, authorIDs []uint, limit int) ([]*models.Tweet, error) {
	if len(authorIDs) == 0 {
		return []*models.Tweet{}, nil
	}
	var tweets []*models.Tweet
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&tweets).Error
	if err != nil {
		return nil, storeErr(err)
	}
	resolveAll(tweets)
	return tweets, nil
}

// Update persists an edited tweet and its pre-edit snapshot atomically.
func (r *tweetRepository) Update(ctx context.Context, tweet *models.Tweet, snapshot *models.TweetEdit) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if snapshot != nil {
			if err := tx.Create(snapshot).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Tweet{}).
			Where("id = ?", tweet.ID).
			Updates(map[string]interface{}{
				"content":    tweet.Content,
				"is_edited":  tweet.IsEdited,
				"updated_at": time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return storeErr(err)
	}
	cache.InvalidateTweet(ctx, tweet.ID)
	cache.InvalidateDiscoverFeed(ctx)
	return nil
}

// Delete removes the tweet, cascades its like edges and edit history, and
// decrements the author's tweet count (floored at zero).
func (r *tweetRepository) Delete(ctx context.Context, tweet *models.Tweet) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tweet_id = ?", tweet.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tweet_id = ?", tweet.ID).Delete(&models.TweetEdit{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Tweet{}, tweet.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", tweet.AuthorID).
			Update("tweet_count", gorm.Expr("CASE WHEN tweet_count > 0 THEN tweet_count - 1 ELSE 0 END")).Error
	})
	if err != nil {
		return storeErr(err)
	}
	cache.InvalidateTweet(ctx, tweet.ID)
	cache.InvalidateUser(ctx, tweet.AuthorID)
	cache.InvalidateDiscoverFeed(ctx)
	return nil
}

func resolveAll(tweets []*models.Tweet) {
	for _, t := range tweets {
		t.Resolve()
	}
}
