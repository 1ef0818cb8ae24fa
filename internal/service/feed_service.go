package service

import (
	"context"
	"time"

	"talkx/internal/cache"
	"talkx/internal/models"
	"talkx/internal/observability"
	"talkx/internal/repository"
)

// DefaultFeedLimit caps how many tweets a single feed request returns.
const DefaultFeedLimit = 50

type FeedService struct {
	tweetRepo  repository.TweetRepository
	followRepo repository.FollowRepository
	likeRepo   repository.LikeRepository
}

func NewFeedService(
	tweetRepo repository.TweetRepository,
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
) *FeedService {
	return &FeedService{
		tweetRepo:  tweetRepo,
		followRepo: followRepo,
		likeRepo:   likeRepo,
	}
}

// FollowingFeed returns the newest tweets from accounts userID follows.
// A user following nobody gets an empty feed, not an error.
func (s *FeedService) FollowingFeed(ctx context.Context, userID uint, limit int) ([]*models.Tweet, error) {
	start := time.Now()
	defer func() {
		observability.FeedAssemblyLatency.WithLabelValues("following").Observe(time.Since(start).Seconds())
	}()
	observability.FeedAssemblies.WithLabelValues("following").Inc()

	if limit <= 0 || limit > DefaultFeedLimit {
		limit = DefaultFeedLimit
	}

	followeeIDs, err := s.followRepo.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followeeIDs) == 0 {
		return []*models.Tweet{}, nil
	}

	tweets, err := s.tweetRepo.ListByAuthors(ctx, followeeIDs, limit)
	if err != nil {
		return nil, err
	}
	if err := s.annotateLiked(ctx, userID, tweets); err != nil {
		return nil, err
	}
	return tweets, nil
}

// DiscoverFeed returns the newest tweets site-wide. The anonymous variant
// is served cache-aside from Redis; authenticated viewers skip the cache
// so their like annotations stay accurate.
func (s *FeedService) DiscoverFeed(ctx context.Context, viewerID uint, limit int) ([]*models.Tweet, error) {
	start := time.Now()
	defer func() {
		observability.FeedAssemblyLatency.WithLabelValues("discover").Observe(time.Since(start).Seconds())
	}()
	observability.FeedAssemblies.WithLabelValues("discover").Inc()

	if limit <= 0 || limit > DefaultFeedLimit {
		limit = DefaultFeedLimit
	}

	if viewerID == 0 && limit == DefaultFeedLimit {
		var tweets []*models.Tweet
		err := cache.Aside(ctx, cache.DiscoverFeedKey, &tweets, cache.DiscoverFeedTTL, func() error {
			var fetchErr error
			tweets, fetchErr = s.tweetRepo.ListRecent(ctx, limit)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}
		return tweets, nil
	}

	tweets, err := s.tweetRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if viewerID != 0 {
		if err := s.annotateLiked(ctx, viewerID, tweets); err != nil {
			return nil, err
		}
	}
	return tweets, nil
}

// annotateLiked marks each tweet with whether the viewer has liked it,
// using one query for the whole page.
func (s *FeedService) annotateLiked(ctx context.Context, viewerID uint, tweets []*models.Tweet) error {
	if len(tweets) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(tweets))
	for _, t := range tweets {
		ids = append(ids, t.ID)
	}
	likedIDs, err := s.likeRepo.LikedTweetIDs(ctx, viewerID, ids)
	if err != nil {
		return err
	}
	likedSet := make(map[uint]struct{}, len(likedIDs))
	for _, id := range likedIDs {
		likedSet[id] = struct{}{}
	}
	for _, t := range tweets {
		_, ok := likedSet[t.ID]
		liked := ok
		t.Liked = &liked
	}
	return nil
}
