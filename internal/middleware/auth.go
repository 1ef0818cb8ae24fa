// Package middleware provides authentication, logging and rate limiting middleware.
package middleware

import (
	"strconv"
	"strings"

	"talkx/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	userID, errMsg := userIDFromBearer(authHeader)
	if errMsg != "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": errMsg,
		})
	}

	c.Locals("userID", userID)
	return c.Next()
}

// OptionalAuth resolves the user ID when a bearer token is present but lets
// anonymous requests through. Used by the discover feed and public profiles
// so like status can be annotated for logged-in viewers.
func OptionalAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	userID, errMsg := userIDFromBearer(authHeader)
	if errMsg != "" {
		// A malformed token on an optional route is still a client error.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": errMsg,
		})
	}

	c.Locals("userID", userID)
	return c.Next()
}

// userIDFromBearer validates a "Bearer <token>" header and extracts the user ID
// from the "sub" claim. Returns a non-empty message on failure.
func userIDFromBearer(authHeader string) (uint, string) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, "Invalid authorization header format"
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "Invalid or expired token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "Invalid token claims"
	}

	subClaim, ok := claims["sub"]
	if !ok {
		return 0, "Invalid token structure - missing subject"
	}

	subStr, ok := subClaim.(string)
	if !ok {
		return 0, "Invalid token subject type"
	}

	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, "Invalid user ID in token"
	}

	return uint(userIDVal), ""
}
