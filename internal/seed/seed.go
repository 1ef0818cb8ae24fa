// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"talkx/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumTweets   int
	ShouldClean bool
}

// Seeder populates the database with a realistic social mesh: users, tweets
// with occasional edit history, follow edges and likes. Denormalized counters
// are written consistently with the edges.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Edge tables first so foreign keys hold.
func (s *Seeder) ClearAll() error {
	for _, table := range []string{"likes", "follows", "tweet_edits", "tweets", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	log.Println("Database cleared")
	return nil
}

// Seed populates the database according to opts and returns the created users.
func (s *Seeder) Seed(opts Options) ([]*models.User, error) {
	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return nil, err
	}

	tweets, err := s.seedTweets(users, opts.NumTweets)
	if err != nil {
		return nil, err
	}

	if err := s.seedFollows(users); err != nil {
		return nil, err
	}

	if err := s.seedLikes(users, tweets); err != nil {
		return nil, err
	}

	log.Printf("Seeded %d users, %d tweets", len(users), len(tweets))
	return users, nil
}

func (s *Seeder) seedUsers(count int) ([]*models.User, error) {
	providers := []models.OAuthProvider{models.OAuthProviderGoogle, models.OAuthProviderGitHub}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		user := &models.User{
			Username:      username,
			Email:         gofakeit.Email(),
			OAuthProvider: providers[s.rng.Intn(len(providers))],
			OAuthID:       gofakeit.UUID(),
			AvatarURL:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
			Bio:           gofakeit.Sentence(8),
			Onboarded:     true,
			CreatedAt:     s.pastTime(180),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("creating user %s: %w", username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedTweets(users []*models.User, count int) ([]*models.Tweet, error) {
	if len(users) == 0 {
		return nil, nil
	}

	tweets := make([]*models.Tweet, 0, count)
	for i := 0; i < count; i++ {
		author := users[s.rng.Intn(len(users))]
		tweet := &models.Tweet{
			AuthorID:  author.ID,
			Content:   s.tweetContent(),
			CreatedAt: s.pastTime(90),
		}
		if err := s.db.Create(tweet).Error; err != nil {
			return nil, fmt.Errorf("creating tweet: %w", err)
		}

		// Roughly one in eight tweets carries an edit history.
		if s.rng.Intn(8) == 0 {
			edit := &models.TweetEdit{
				TweetID:  tweet.ID,
				Content:  tweet.Content,
				EditedAt: tweet.CreatedAt.Add(time.Duration(s.rng.Intn(120)) * time.Minute),
			}
			if err := s.db.Create(edit).Error; err != nil {
				return nil, fmt.Errorf("creating tweet edit: %w", err)
			}
			tweet.Content = s.tweetContent()
			tweet.IsEdited = true
			if err := s.db.Save(tweet).Error; err != nil {
				return nil, fmt.Errorf("saving edited tweet: %w", err)
			}
		}

		author.TweetCount++
		tweets = append(tweets, tweet)
	}

	// Write back the accumulated tweet counts.
	for _, user := range users {
		if err := s.db.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("tweet_count", user.TweetCount).Error; err != nil {
			return nil, fmt.Errorf("updating tweet count: %w", err)
		}
	}
	return tweets, nil
}

func (s *Seeder) seedFollows(users []*models.User) error {
	for _, follower := range users {
		// Each user follows up to a third of the mesh.
		n := s.rng.Intn(len(users)/3 + 1)
		seen := map[uint]struct{}{follower.ID: {}}
		for i := 0; i < n; i++ {
			followee := users[s.rng.Intn(len(users))]
			if _, dup := seen[followee.ID]; dup {
				continue
			}
			seen[followee.ID] = struct{}{}
			follow := &models.Follow{
				FollowerID: follower.ID,
				FolloweeID: followee.ID,
			}
			if err := s.db.Create(follow).Error; err != nil {
				return fmt.Errorf("creating follow: %w", err)
			}
		}
	}
	return nil
}

func (s *Seeder) seedLikes(users []*models.User, tweets []*models.Tweet) error {
	for _, tweet := range tweets {
		n := s.rng.Intn(len(users)/4 + 1)
		seen := map[uint]struct{}{}
		likeCount := 0
		for i := 0; i < n; i++ {
			user := users[s.rng.Intn(len(users))]
			if _, dup := seen[user.ID]; dup {
				continue
			}
			seen[user.ID] = struct{}{}
			like := &models.Like{
				UserID:  user.ID,
				TweetID: tweet.ID,
			}
			if err := s.db.Create(like).Error; err != nil {
				return fmt.Errorf("creating like: %w", err)
			}
			likeCount++
		}
		if likeCount > 0 {
			if err := s.db.Model(&models.Tweet{}).
				Where("id = ?", tweet.ID).
				Update("like_count", likeCount).Error; err != nil {
				return fmt.Errorf("updating like count: %w", err)
			}
		}
	}
	return nil
}

// tweetContent generates a short post that always fits the length limit.
func (s *Seeder) tweetContent() string {
	content := gofakeit.Sentence(4 + s.rng.Intn(12))
	if len(content) > models.MaxTweetLength {
		content = content[:models.MaxTweetLength]
	}
	return content
}

// pastTime returns a timestamp up to maxDays in the past.
func (s *Seeder) pastTime(maxDays int) time.Time {
	daysBack := s.rng.Intn(maxDays)
	hoursBack := s.rng.Intn(24)
	minsBack := s.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}
