package service

import (
	"context"

	"talkx/internal/models"
)

// tweetRepoStub is a stub for repository.TweetRepository.
type tweetRepoStub struct {
	createFn        func(context.Context, *models.Tweet) error
	getByIDFn       func(context.Context, uint, uint) (*models.Tweet, error)
	listByAuthorFn  func(context.Context, uint, int) ([]*models.Tweet, error)
	listRecentFn    func(context.Context, int) ([]*models.Tweet, error)
	listByAuthorsFn func(context.Context, []uint, int) ([]*models.Tweet, error)
	updateFn        func(context.Context, *models.Tweet, *models.TweetEdit) error
	deleteFn        func(context.Context, *models.Tweet) error
}

func (s *tweetRepoStub) Create(ctx context.Context, tweet *models.Tweet) error {
	return s.createFn(ctx, tweet)
}
func (s *tweetRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Tweet, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *tweetRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.Tweet, error) {
	return s.listByAuthorFn(ctx, authorID, limit)
}
func (s *tweetRepoStub) ListRecent(ctx context.Context, limit int) ([]*models.Tweet, error) {
	return s.listRecentFn(ctx, limit)
}
func (s *tweetRepoStub) ListByAuthors(ctx context.Context, authorIDs []uint, limit int) ([]*models.Tweet, error) {
	return s.listByAuthorsFn(ctx, authorIDs, limit)
}
func (s *tweetRepoStub) Update(ctx context.Context, tweet *models.Tweet, snapshot *models.TweetEdit) error {
	return s.updateFn(ctx, tweet, snapshot)
}
func (s *tweetRepoStub) Delete(ctx context.Context, tweet *models.Tweet) error {
	return s.deleteFn(ctx, tweet)
}

func noopTweetRepo() *tweetRepoStub {
	return &tweetRepoStub{
		createFn:  func(_ context.Context, _ *models.Tweet) error { return nil },
		getByIDFn: func(_ context.Context, _, _ uint) (*models.Tweet, error) { return &models.Tweet{}, nil },
		listByAuthorFn: func(_ context.Context, _ uint, _ int) ([]*models.Tweet, error) {
			return nil, nil
		},
		listRecentFn: func(_ context.Context, _ int) ([]*models.Tweet, error) { return nil, nil },
		listByAuthorsFn: func(_ context.Context, _ []uint, _ int) ([]*models.Tweet, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Tweet, _ *models.TweetEdit) error { return nil },
		deleteFn: func(_ context.Context, _ *models.Tweet) error { return nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn         func(context.Context, *models.Follow) error
	deleteFn         func(context.Context, uint, uint) error
	existsFn         func(context.Context, uint, uint) (bool, error)
	followeeIDsFn    func(context.Context, uint) ([]uint, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, follow *models.Follow) error {
	return s.createFn(ctx, follow)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followeeID uint) error {
	return s.deleteFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) FolloweeIDs(ctx context.Context, followerID uint) ([]uint, error) {
	return s.followeeIDsFn(ctx, followerID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(_ context.Context, _ *models.Follow) error { return nil },
		deleteFn:         func(_ context.Context, _, _ uint) error { return nil },
		existsFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followeeIDsFn:    func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	createFn        func(context.Context, *models.Like) error
	deleteFn        func(context.Context, uint, uint) error
	existsFn        func(context.Context, uint, uint) (bool, error)
	likedTweetIDsFn func(context.Context, uint, []uint) ([]uint, error)
}

func (s *likeRepoStub) Create(ctx context.Context, like *models.Like) error {
	return s.createFn(ctx, like)
}
func (s *likeRepoStub) Delete(ctx context.Context, userID, tweetID uint) error {
	return s.deleteFn(ctx, userID, tweetID)
}
func (s *likeRepoStub) Exists(ctx context.Context, userID, tweetID uint) (bool, error) {
	return s.existsFn(ctx, userID, tweetID)
}
func (s *likeRepoStub) LikedTweetIDs(ctx context.Context, userID uint, tweetIDs []uint) ([]uint, error) {
	return s.likedTweetIDsFn(ctx, userID, tweetIDs)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		createFn:        func(_ context.Context, _ *models.Like) error { return nil },
		deleteFn:        func(_ context.Context, _, _ uint) error { return nil },
		existsFn:        func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likedTweetIDsFn: func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn         func(context.Context, *models.User) error
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByOAuthFn     func(context.Context, models.OAuthProvider, string) (*models.User, error)
	usernameExistsFn func(context.Context, string) (bool, error)
	updateFn         func(context.Context, *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByOAuth(ctx context.Context, provider models.OAuthProvider, oauthID string) (*models.User, error) {
	return s.getByOAuthFn(ctx, provider, oauthID)
}
func (s *userRepoStub) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.usernameExistsFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:         func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:        func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByOAuthFn:     func(_ context.Context, _ models.OAuthProvider, _ string) (*models.User, error) { return &models.User{}, nil },
		usernameExistsFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
		updateFn:         func(_ context.Context, _ *models.User) error { return nil },
	}
}
