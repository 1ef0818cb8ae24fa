package repository

import (
	"context"

	"talkx/internal/cache"
	"talkx/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines the interface for like edge operations.
// Create and Delete keep the tweet's like_count in step with the edge
// table inside one transaction.
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, userID, tweetID uint) error
	Exists(ctx context.Context, userID, tweetID uint) (bool, error)
	LikedTweetIDs(ctx context.Context, userID uint, tweetIDs []uint) ([]uint, error)
}

// likeRepository implements LikeRepository
type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Tweet{}).
			Where("id = ?", like.TweetID).
			Update("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return models.NewAlreadyLikedError()
		}
		return storeErr(err)
	}
	cache.InvalidateTweet(ctx, like.TweetID)
	return nil
}

// Delete removes the like edge and decrements the tweet's like count,
// floored at zero.
func (r *likeRepository) Delete(ctx context.Context, userID, tweetID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND tweet_id = ?", userID, tweetID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotLikedError()
		}
		return tx.Model(&models.Tweet{}).
			Where("id = ?", tweetID).
			Update("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error
	})
	if err != nil {
		return storeErr(err)
	}
	cache.InvalidateTweet(ctx, tweetID)
	return nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, tweetID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Count(&count).Error
	if err != nil {
		return false, storeErr(err)
	}
	return count > 0, nil
}

// LikedTweetIDs filters tweetIDs down to the ones userID has liked.
func (r *likeRepository) LikedTweetIDs(ctx context.Context, userID uint, tweetIDs []uint) ([]uint, error) {
	if len(tweetIDs) == 0 {
		return []uint{}, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND tweet_id IN ?", userID, tweetIDs).
		Pluck("tweet_id", &ids).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return ids, nil
}
