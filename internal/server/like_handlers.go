package server

import (
	"github.com/gofiber/fiber/v2"
)

// LikeTweet handles POST /api/likes/:tweetId
func (s *Server) LikeTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	tweetID, err := s.parseID(c, "tweetId")
	if err != nil {
		return nil
	}

	if err := s.likeService.Like(ctx, userID, tweetID); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Liked"})
}

// UnlikeTweet handles DELETE /api/likes/:tweetId
func (s *Server) UnlikeTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	tweetID, err := s.parseID(c, "tweetId")
	if err != nil {
		return nil
	}

	if err := s.likeService.Unlike(ctx, userID, tweetID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Unliked"})
}

// CheckLiked handles GET /api/likes/check/:tweetId
func (s *Server) CheckLiked(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	tweetID, err := s.parseID(c, "tweetId")
	if err != nil {
		return nil
	}

	liked, err := s.likeService.HasLiked(ctx, userID, tweetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"liked": liked})
}
