package repository

import (
	"context"
	"testing"

	"talkx/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Create and GetByID", func(t *testing.T) {
		user := &models.User{
			Username:      "dana",
			Email:         "dana@example.com",
			OAuthProvider: models.OAuthProviderGitHub,
			OAuthID:       "gh-123",
		}
		require.NoError(t, repo.Create(ctx, user))
		require.NotZero(t, user.ID)

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "dana", got.Username)
		assert.False(t, got.Onboarded)
	})

	t.Run("GetByID unknown returns NotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 4242)
		require.Error(t, err)
		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("GetByOAuth resolves the identity", func(t *testing.T) {
		got, err := repo.GetByOAuth(ctx, models.OAuthProviderGitHub, "gh-123")
		require.NoError(t, err)
		assert.Equal(t, "dana", got.Username)

		_, err = repo.GetByOAuth(ctx, models.OAuthProviderGoogle, "gh-123")
		require.Error(t, err)
		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("UsernameExists", func(t *testing.T) {
		exists, err := repo.UsernameExists(ctx, "dana")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.UsernameExists(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Update persists changes", func(t *testing.T) {
		user, err := repo.GetByOAuth(ctx, models.OAuthProviderGitHub, "gh-123")
		require.NoError(t, err)

		user.Bio = "short bio"
		user.Onboarded = true
		require.NoError(t, repo.Update(ctx, user))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "short bio", got.Bio)
		assert.True(t, got.Onboarded)
	})
}
