package service

import (
	"context"
	"testing"

	"talkx/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow(t *testing.T) {
	ctx := context.Background()

	t.Run("self follow is rejected", func(t *testing.T) {
		svc := NewFollowService(noopFollowRepo(), noopUserRepo())

		err := svc.Follow(ctx, 1, 1)
		require.Error(t, err)
		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, models.CodeSelfFollow, appErr.Code)
	})

	t.Run("unknown followee surfaces NotFound", func(t *testing.T) {
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		svc := NewFollowService(noopFollowRepo(), users)

		err := svc.Follow(ctx, 1, 2)
		require.Error(t, err)
		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("creates the edge", func(t *testing.T) {
		follows := noopFollowRepo()
		var created *models.Follow
		follows.createFn = func(_ context.Context, follow *models.Follow) error {
			created = follow
			return nil
		}
		svc := NewFollowService(follows, noopUserRepo())

		require.NoError(t, svc.Follow(ctx, 1, 2))
		require.NotNil(t, created)
		assert.Equal(t, uint(1), created.FollowerID)
		assert.Equal(t, uint(2), created.FolloweeID)
	})
}

func TestUnfollow(t *testing.T) {
	ctx := context.Background()

	t.Run("self unfollow is rejected", func(t *testing.T) {
		svc := NewFollowService(noopFollowRepo(), noopUserRepo())

		err := svc.Unfollow(ctx, 3, 3)
		require.Error(t, err)
		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, models.CodeSelfFollow, appErr.Code)
	})

	t.Run("missing edge surfaces NotFollowing", func(t *testing.T) {
		follows := noopFollowRepo()
		follows.deleteFn = func(_ context.Context, _, _ uint) error {
			return models.NewNotFollowingError()
		}
		svc := NewFollowService(follows, noopUserRepo())

		err := svc.Unfollow(ctx, 1, 2)
		require.Error(t, err)
		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, models.CodeNotFollowing, appErr.Code)
	})
}
