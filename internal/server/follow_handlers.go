package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/follows/:userId
func (s *Server) FollowUser(c *fiber.Ctx) error {
	ctx := c.Context()
	followerID := c.Locals("userID").(uint)

	followeeID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.followService.Follow(ctx, followerID, followeeID); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Followed"})
}

// UnfollowUser handles DELETE /api/follows/:userId
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	ctx := c.Context()
	followerID := c.Locals("userID").(uint)

	followeeID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(ctx, followerID, followeeID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Unfollowed"})
}

// CheckFollowing handles GET /api/follows/check/:userId
func (s *Server) CheckFollowing(c *fiber.Ctx) error {
	ctx := c.Context()
	followerID := c.Locals("userID").(uint)

	followeeID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	following, err := s.followService.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"following": following})
}
