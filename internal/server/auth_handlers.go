package server

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talkx/internal/models"
	"talkx/internal/service"
)

const oauthStateCookie = "oauth_state"

// OAuthRedirect handles GET /api/auth/:provider and sends the browser to the
// provider's consent page with a single-use state value.
func (s *Server) OAuthRedirect(c *fiber.Ctx) error {
	provider, ok := s.providers[models.OAuthProvider(c.Params("provider"))]
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("OAuth provider", c.Params("provider")))
	}

	state := uuid.New().String()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   s.config.IsProduction(),
	})

	return c.Redirect(provider.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// OAuthCallback handles GET /api/auth/:provider/callback. On success the
// browser is redirected to the client app with a bearer token; first-time
// sign-ins carry newUser=true so the client can start onboarding.
func (s *Server) OAuthCallback(c *fiber.Ctx) error {
	ctx := c.Context()

	provider, ok := s.providers[models.OAuthProvider(c.Params("provider"))]
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("OAuth provider", c.Params("provider")))
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid OAuth state"))
	}
	c.ClearCookie(oauthStateCookie)

	code := c.Query("code")
	if code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing authorization code"))
	}

	identity, err := provider.Identity(ctx, code)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("OAuth sign-in failed"))
	}

	user, created, err := s.userService.FindOrCreateFromOAuth(ctx, identity)
	if err != nil {
		return respondServiceError(c, err)
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	redirect := fmt.Sprintf("%s/auth/callback?token=%s", s.config.ClientURL, url.QueryEscape(token))
	if created || !user.Onboarded {
		redirect += "&newUser=true"
	}
	return c.Redirect(redirect, fiber.StatusTemporaryRedirect)
}

// Logout handles POST /api/auth/logout. Sessions are stateless JWTs, so this
// is an acknowledgement for clients that want an explicit sign-out call; the
// client discards its token.
func (s *Server) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// GetCurrentUser handles GET /api/auth/me
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUser(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// CompleteOnboarding handles POST /api/auth/onboard
func (s *Server) CompleteOnboarding(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Username string `json:"username"`
		Bio      string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Onboard(ctx, service.OnboardInput{
		UserID:   userID,
		Username: req.Username,
		Bio:      req.Bio,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}
