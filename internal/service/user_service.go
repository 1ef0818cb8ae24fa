package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"talkx/internal/cache"
	"talkx/internal/models"
	"talkx/internal/repository"
)

// MaxBioLength caps the profile bio.
const MaxBioLength = 160

var usernameSanitizer = regexp.MustCompile(`[^a-z0-9_]+`)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// OAuthIdentity is the normalized profile returned by an OAuth provider.
type OAuthIdentity struct {
	Provider  models.OAuthProvider
	OAuthID   string
	Email     string
	Name      string
	AvatarURL string
}

type OnboardInput struct {
	UserID   uint
	Username string
	Bio      string
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns the user's public projection with follower and following
// counts. When viewerID is set and differs from the subject, the profile also
// reports whether the viewer follows them.
func (s *UserService) GetProfile(ctx context.Context, userID uint, viewerID uint) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileKey(userID), &profile, cache.UserTTL, func() error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		followers, err := s.followRepo.CountFollowers(ctx, userID)
		if err != nil {
			return err
		}
		following, err := s.followRepo.CountFollowing(ctx, userID)
		if err != nil {
			return err
		}
		profile = models.Profile{
			SafeUser:       user.Safe(),
			FollowerCount:  followers,
			FollowingCount: following,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Viewer annotation is per-request, never cached.
	profile.IsFollowing = nil
	if viewerID != 0 && viewerID != userID {
		isFollowing, err := s.followRepo.Exists(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowing = &isFollowing
	}
	return &profile, nil
}

// Onboard completes first-time setup: an optional username change plus a bio.
// It marks the account onboarded regardless of whether the bio is empty.
func (s *UserService) Onboard(ctx context.Context, input OnboardInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	bio := strings.TrimSpace(input.Bio)
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return nil, models.NewValidationError("Bio exceeds 160 characters")
	}

	if username := strings.TrimSpace(input.Username); username != "" && username != user.Username {
		if !isValidUsername(username) {
			return nil, models.NewValidationError("Username must be 3-30 characters: lowercase letters, digits and underscores")
		}
		taken, err := s.userRepo.UsernameExists(ctx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewValidationError("Username is already taken")
		}
		user.Username = username
	}

	user.Bio = bio
	user.Onboarded = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// FindOrCreateFromOAuth resolves an OAuth identity to a local account,
// creating one on first login. The second return value reports whether the
// account was just created.
func (s *UserService) FindOrCreateFromOAuth(ctx context.Context, identity OAuthIdentity) (*models.User, bool, error) {
	user, err := s.userRepo.GetByOAuth(ctx, identity.Provider, identity.OAuthID)
	if err == nil {
		return user, false, nil
	}
	if appErr, ok := models.AsAppError(err); !ok || appErr.Code != models.CodeNotFound {
		return nil, false, err
	}

	username, err := s.uniqueUsername(ctx, identity.Name, identity.Email)
	if err != nil {
		return nil, false, err
	}

	user = &models.User{
		Username:      username,
		Email:         identity.Email,
		OAuthProvider: identity.Provider,
		OAuthID:       identity.OAuthID,
		AvatarURL:     identity.AvatarURL,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// uniqueUsername derives a username from the OAuth display name (falling back
// to the email local part) and suffixes a counter until it is free.
func (s *UserService) uniqueUsername(ctx context.Context, name, email string) (string, error) {
	base := sanitizeUsername(name)
	if base == "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			base = sanitizeUsername(email[:at])
		}
	}
	if base == "" {
		base = "user"
	}
	if len(base) > 24 {
		base = base[:24]
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := s.userRepo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

func sanitizeUsername(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = usernameSanitizer.ReplaceAllString(s, "")
	return strings.Trim(s, "_")
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

func isValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}
