package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"talkx/internal/models"
	"talkx/internal/repository"
	"talkx/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestServer wires a Server over an in-memory database with real
// repositories and services. Authentication is stubbed with a middleware
// that injects the given user ID.
func setupTestServer(t *testing.T) (*Server, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tweet{},
		&models.TweetEdit{},
		&models.Follow{},
		&models.Like{},
	))

	userRepo := repository.NewUserRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	s := &Server{
		db:         db,
		userRepo:   userRepo,
		tweetRepo:  tweetRepo,
		followRepo: followRepo,
		likeRepo:   likeRepo,
	}
	s.userService = service.NewUserService(userRepo, followRepo)
	s.tweetService = service.NewTweetService(tweetRepo, nil)
	s.followService = service.NewFollowService(followRepo, userRepo)
	s.likeService = service.NewLikeService(likeRepo, tweetRepo)
	s.feedService = service.NewFeedService(tweetRepo, followRepo, likeRepo)

	return s, db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{
		Username:      username,
		Email:         username + "@example.com",
		OAuthProvider: models.OAuthProviderGoogle,
		OAuthID:       "oauth-" + username,
		Onboarded:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// authAs injects a fixed user ID the way AuthRequired would.
func authAs(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestCreateTweetHandler(t *testing.T) {
	s, db := setupTestServer(t)
	user := seedUser(t, db, "writer")

	app := fiber.New()
	app.Post("/tweets", authAs(user.ID), s.CreateTweet)

	t.Run("creates a tweet", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tweets",
			jsonBody(t, fiber.Map{"content": "first post"}))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var tweet models.Tweet
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tweet))
		assert.Equal(t, "first post", tweet.Content)
		assert.NotNil(t, tweet.AuthorSafe)
	})

	t.Run("empty content is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tweets",
			jsonBody(t, fiber.Map{"content": "   "}))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateTweetHandler(t *testing.T) {
	s, db := setupTestServer(t)
	author := seedUser(t, db, "author")
	other := seedUser(t, db, "other")

	tweet := &models.Tweet{AuthorID: author.ID, Content: "draft"}
	require.NoError(t, db.Create(tweet).Error)

	newApp := func(userID uint) *fiber.App {
		app := fiber.New()
		app.Patch("/tweets/:id", authAs(userID), s.UpdateTweet)
		return app
	}

	t.Run("author can edit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/tweets/%d", tweet.ID),
			jsonBody(t, fiber.Map{"content": "edited"}))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp(author.ID).Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.Tweet
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "edited", got.Content)
		assert.True(t, got.IsEdited)
		require.Len(t, got.Edits, 1)
		assert.Equal(t, "draft", got.Edits[0].Content)
	})

	t.Run("non-author gets a 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/tweets/%d", tweet.ID),
			jsonBody(t, fiber.Map{"content": "hijack"}))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp(other.ID).Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("unknown tweet gets a 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/tweets/99999",
			jsonBody(t, fiber.Map{"content": "ghost"}))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp(author.ID).Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteTweetHandler(t *testing.T) {
	s, db := setupTestServer(t)
	author := seedUser(t, db, "author")
	other := seedUser(t, db, "other")

	tweet := &models.Tweet{AuthorID: author.ID, Content: "to delete"}
	require.NoError(t, db.Create(tweet).Error)

	newApp := func(userID uint) *fiber.App {
		app := fiber.New()
		app.Delete("/tweets/:id", authAs(userID), s.DeleteTweet)
		return app
	}

	t.Run("non-author gets a 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/tweets/%d", tweet.ID), nil)
		resp, err := newApp(other.ID).Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("author can delete", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/tweets/%d", tweet.ID), nil)
		resp, err := newApp(author.ID).Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var count int64
		db.Model(&models.Tweet{}).Where("id = ?", tweet.ID).Count(&count)
		assert.Zero(t, count)
	})
}

func TestFeedHandlers(t *testing.T) {
	s, db := setupTestServer(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	require.NoError(t, db.Create(&models.Tweet{AuthorID: bob.ID, Content: "bob post"}).Error)
	require.NoError(t, db.Create(&models.Tweet{AuthorID: carol.ID, Content: "carol post"}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FolloweeID: bob.ID}).Error)

	t.Run("following feed shows only followed authors", func(t *testing.T) {
		app := fiber.New()
		app.Get("/feed/following", authAs(alice.ID), s.GetFollowingFeed)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/feed/following", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var tweets []models.Tweet
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tweets))
		require.Len(t, tweets, 1)
		assert.Equal(t, "bob post", tweets[0].Content)
	})

	t.Run("following nobody returns an empty array", func(t *testing.T) {
		app := fiber.New()
		app.Get("/feed/following", authAs(carol.ID), s.GetFollowingFeed)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/feed/following", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var tweets []models.Tweet
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tweets))
		assert.Empty(t, tweets)
	})

	t.Run("discover feed is public", func(t *testing.T) {
		app := fiber.New()
		app.Get("/feed/discover", s.GetDiscoverFeed)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/feed/discover", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var tweets []models.Tweet
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tweets))
		assert.Len(t, tweets, 2)
	})
}

func TestGetTweetHandler(t *testing.T) {
	s, db := setupTestServer(t)
	author := seedUser(t, db, "author")
	tweet := &models.Tweet{AuthorID: author.ID, Content: "readable"}
	require.NoError(t, db.Create(tweet).Error)

	app := fiber.New()
	app.Get("/tweets/:id", s.GetTweet)

	t.Run("fetches a tweet", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/tweets/%d", tweet.ID), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("bad ID is a 400", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/tweets/abc", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown ID is a 404", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/tweets/99999", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
