// Package notifications delivers real-time tweet events to websocket clients.
package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"runtime/debug"
	"time"

	"talkx/internal/models"

	"github.com/redis/go-redis/v9"
)

const eventChannel = "tweets:events"

// Event is the wire form of a tweet event pushed to websocket clients.
type Event struct {
	Type      string        `json:"type"`
	Tweet     *models.Tweet `json:"tweet,omitempty"`
	TweetID   uint          `json:"tweet_id,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Notifier publishes tweet events into a Redis channel so every instance
// can fan them out to its own websocket clients.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier using the provided Redis client. A nil
// client turns publishing into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishTweetEvent publishes a tweet lifecycle event. Deleted tweets carry
// only the ID so clients can drop them from their timeline.
func (n *Notifier) PublishTweetEvent(ctx context.Context, eventType string, tweet *models.Tweet) error {
	if n.rdb == nil {
		return nil
	}
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
	if eventType == "tweet.deleted" {
		event.TweetID = tweet.ID
	} else {
		event.Tweet = tweet
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, eventChannel, payload).Err()
}

// StartSubscriber subscribes to the tweet event channel and calls onMessage
// for each incoming payload until ctx is cancelled.
func (n *Notifier) StartSubscriber(ctx context.Context, onMessage func(payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, eventChannel)
	ch := sub.Channel()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("tweet event subscriber panicked",
					"recover", r,
					"stack", string(debug.Stack()))
			}
			_ = sub.Close()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				onMessage(msg.Payload)
			}
		}
	}()

	return nil
}
