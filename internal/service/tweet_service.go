package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"talkx/internal/models"
	"talkx/internal/repository"
)

type TweetService struct {
	tweetRepo repository.TweetRepository
	notify    func(event string, tweet *models.Tweet)
}

type CreateTweetInput struct {
	AuthorID uint
	Content  string
}

type UpdateTweetInput struct {
	UserID  uint
	TweetID uint
	Content string
}

type DeleteTweetInput struct {
	UserID  uint
	TweetID uint
}

func NewTweetService(
	tweetRepo repository.TweetRepository,
	notify func(event string, tweet *models.Tweet),
) *TweetService {
	return &TweetService{
		tweetRepo: tweetRepo,
		notify:    notify,
	}
}

// validateContent trims surrounding whitespace and enforces the length
// window of 1 to 280 characters, counted in runes.
func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("Tweet content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxTweetLength {
		return "", models.NewValidationError("Tweet content exceeds 280 characters")
	}
	return content, nil
}

func (s *TweetService) CreateTweet(ctx context.Context, input CreateTweetInput) (*models.Tweet, error) {
	content, err := validateContent(input.Content)
	if err != nil {
		return nil, err
	}

	tweet := &models.Tweet{
		AuthorID: input.AuthorID,
		Content:  content,
	}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}

	created, err := s.tweetRepo.GetByID(ctx, tweet.ID, input.AuthorID)
	if err != nil {
		return nil, err
	}
	if s.notify != nil {
		s.notify("tweet.created", created)
	}
	return created, nil
}

func (s *TweetService) GetTweet(ctx context.Context, tweetID uint, viewerID uint) (*models.Tweet, error) {
	return s.tweetRepo.GetByID(ctx, tweetID, viewerID)
}

// UpdateTweet replaces the tweet body and records the previous content in
// the edit history. Only the author may edit.
func (s *TweetService) UpdateTweet(ctx context.Context, input UpdateTweetInput) (*models.Tweet, error) {
	content, err := validateContent(input.Content)
	if err != nil {
		return nil, err
	}

	tweet, err := s.tweetRepo.GetByID(ctx, input.TweetID, 0)
	if err != nil {
		return nil, err
	}
	if tweet.AuthorID != input.UserID {
		return nil, models.NewForbiddenError("You can only edit your own tweets")
	}

	snapshot := &models.TweetEdit{
		TweetID:  tweet.ID,
		Content:  tweet.Content,
		EditedAt: time.Now().UTC(),
	}
	tweet.Content = content
	tweet.IsEdited = true
	if err := s.tweetRepo.Update(ctx, tweet, snapshot); err != nil {
		return nil, err
	}

	updated, err := s.tweetRepo.GetByID(ctx, tweet.ID, input.UserID)
	if err != nil {
		return nil, err
	}
	if s.notify != nil {
		s.notify("tweet.updated", updated)
	}
	return updated, nil
}

func (s *TweetService) DeleteTweet(ctx context.Context, input DeleteTweetInput) error {
	tweet, err := s.tweetRepo.GetByID(ctx, input.TweetID, 0)
	if err != nil {
		return err
	}
	if tweet.AuthorID != input.UserID {
		return models.NewForbiddenError("You can only delete your own tweets")
	}

	if err := s.tweetRepo.Delete(ctx, tweet); err != nil {
		return err
	}
	if s.notify != nil {
		s.notify("tweet.deleted", tweet)
	}
	return nil
}

func (s *TweetService) ListUserTweets(ctx context.Context, authorID uint, limit int) ([]*models.Tweet, error) {
	return s.tweetRepo.ListByAuthor(ctx, authorID, limit)
}
