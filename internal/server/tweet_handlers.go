// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"github.com/gofiber/fiber/v2"

	"talkx/internal/models"
	"talkx/internal/service"
)

// CreateTweet handles POST /api/tweets
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tweet, err := s.tweetService.CreateTweet(ctx, service.CreateTweetInput{
		AuthorID: userID,
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(tweet)
}

// GetTweet handles GET /api/tweets/:id
func (s *Server) GetTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	tweet, err := s.tweetService.GetTweet(ctx, id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(tweet)
}

// UpdateTweet handles PATCH /api/tweets/:id
func (s *Server) UpdateTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tweet, err := s.tweetService.UpdateTweet(ctx, service.UpdateTweetInput{
		UserID:  userID,
		TweetID: id,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(tweet)
}

// DeleteTweet handles DELETE /api/tweets/:id
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tweetService.DeleteTweet(ctx, service.DeleteTweetInput{
		UserID:  userID,
		TweetID: id,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Tweet deleted"})
}

// GetDiscoverFeed handles GET /api/tweets/feed/discover
func (s *Server) GetDiscoverFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	limit := parseLimit(c, service.DefaultFeedLimit)

	tweets, err := s.feedService.DiscoverFeed(ctx, currentUserID(c), limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(tweets)
}

// GetFollowingFeed handles GET /api/tweets/feed/following
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	limit := parseLimit(c, service.DefaultFeedLimit)

	tweets, err := s.feedService.FollowingFeed(ctx, userID, limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(tweets)
}
