package service

import (
	"context"

	"talkx/internal/models"
	"talkx/internal/repository"
)

type LikeService struct {
	likeRepo  repository.LikeRepository
	tweetRepo repository.TweetRepository
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	tweetRepo repository.TweetRepository,
) *LikeService {
	return &LikeService{
		likeRepo:  likeRepo,
		tweetRepo: tweetRepo,
	}
}

func (s *LikeService) Like(ctx context.Context, userID, tweetID uint) error {
	if _, err := s.tweetRepo.GetByID(ctx, tweetID, 0); err != nil {
		return err
	}
	return s.likeRepo.Create(ctx, &models.Like{
		UserID:  userID,
		TweetID: tweetID,
	})
}

func (s *LikeService) Unlike(ctx context.Context, userID, tweetID uint) error {
	return s.likeRepo.Delete(ctx, userID, tweetID)
}

func (s *LikeService) HasLiked(ctx context.Context, userID, tweetID uint) (bool, error) {
	return s.likeRepo.Exists(ctx, userID, tweetID)
}
