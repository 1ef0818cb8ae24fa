package server

import (
	"github.com/gofiber/fiber/v2"

	"talkx/internal/service"
)

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetProfile(ctx, id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// GetUserTweets handles GET /api/users/:id/tweets
func (s *Server) GetUserTweets(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	limit := parseLimit(c, service.DefaultFeedLimit)

	// Make sure the user exists so an unknown ID is a 404, not an empty list.
	if _, err := s.userService.GetUser(ctx, id); err != nil {
		return respondServiceError(c, err)
	}

	tweets, err := s.tweetService.ListUserTweets(ctx, id, limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(tweets)
}
