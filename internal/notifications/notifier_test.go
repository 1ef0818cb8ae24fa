package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"talkx/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNotifier(t *testing.T) *Notifier {
	mr := miniredis.RunT(t)
	return NewNotifier(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestPublishAndSubscribe(t *testing.T) {
	n := setupNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 1)
	require.NoError(t, n.StartSubscriber(ctx, func(payload string) {
		received <- payload
	}))

	// Give the subscription a moment to establish.
	time.Sleep(50 * time.Millisecond)

	tweet := &models.Tweet{ID: 3, AuthorID: 1, Content: "live"}
	require.NoError(t, n.PublishTweetEvent(ctx, "tweet.created", tweet))

	select {
	case payload := <-received:
		var event Event
		require.NoError(t, json.Unmarshal([]byte(payload), &event))
		assert.Equal(t, "tweet.created", event.Type)
		require.NotNil(t, event.Tweet)
		assert.Equal(t, "live", event.Tweet.Content)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestPublishDeletedCarriesOnlyID(t *testing.T) {
	n := setupNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 1)
	require.NoError(t, n.StartSubscriber(ctx, func(payload string) {
		received <- payload
	}))
	time.Sleep(50 * time.Millisecond)

	tweet := &models.Tweet{ID: 9, AuthorID: 1, Content: "gone"}
	require.NoError(t, n.PublishTweetEvent(ctx, "tweet.deleted", tweet))

	select {
	case payload := <-received:
		var event Event
		require.NoError(t, json.Unmarshal([]byte(payload), &event))
		assert.Equal(t, "tweet.deleted", event.Type)
		assert.EqualValues(t, 9, event.TweetID)
		assert.Nil(t, event.Tweet)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestNilClientIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	ctx := context.Background()

	assert.NoError(t, n.PublishTweetEvent(ctx, "tweet.created", &models.Tweet{ID: 1}))
	assert.NoError(t, n.StartSubscriber(ctx, func(string) {
		t.Fatal("no-op subscriber must never deliver")
	}))
}
