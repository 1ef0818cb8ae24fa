package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	TweetKeyPrefix   = "tweet:%d"
	DiscoverFeedKey  = "feed:discover"
	ProfileKeyPrefix = "profile:%d"
)

const (
	UserTTL         = 5 * time.Minute
	TweetTTL        = 10 * time.Minute
	DiscoverFeedTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func TweetKey(tweetID uint) string {
	return fmt.Sprintf(TweetKeyPrefix, tweetID)
}

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, ProfileKey(userID))
}

func InvalidateTweet(ctx context.Context, tweetID uint) {
	Invalidate(ctx, TweetKey(tweetID))
}

// InvalidateDiscoverFeed drops the cached anonymous discover feed. Called on
// every tweet mutation so the feed never serves deleted or stale content for
// longer than one request.
func InvalidateDiscoverFeed(ctx context.Context) {
	Invalidate(ctx, DiscoverFeedKey)
}
