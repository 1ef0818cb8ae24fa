package repository

import (
	"context"
	"testing"

	"talkx/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	t.Run("Create and Exists", func(t *testing.T) {
		err := repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FolloweeID: bob.ID})
		assert.NoError(t, err)

		exists, err := repo.Exists(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.Exists(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate follow returns AlreadyFollowing", func(t *testing.T) {
		err := repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FolloweeID: bob.ID})
		require.Error(t, err)
		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, models.CodeAlreadyFollowing, appErr.Code)
	})

	t.Run("Delete removes the edge", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: alice.ID, FolloweeID: carol.ID}))
		assert.NoError(t, repo.Delete(ctx, alice.ID, carol.ID))

		exists, err := repo.Exists(ctx, alice.ID, carol.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete without an edge returns NotFollowing", func(t *testing.T) {
		err := repo.Delete(ctx, carol.ID, alice.ID)
		require.Error(t, err)
		appErr, ok := models.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, models.CodeNotFollowing, appErr.Code)
	})

	t.Run("FolloweeIDs and counts", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: carol.ID, FolloweeID: bob.ID}))

		ids, err := repo.FolloweeIDs(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{bob.ID}, ids)

		followers, err := repo.CountFollowers(ctx, bob.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, followers)

		following, err := repo.CountFollowing(ctx, alice.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, following)
	})
}
