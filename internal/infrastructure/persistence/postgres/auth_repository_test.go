package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/taskdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRepository(t *testing.T) {
	store := setupStore(t)
	f := seed(t, store)
	ctx := context.Background()

	id := uuid.Must(uuid.NewV7()).String()
	created := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, store.Create(ctx, &domain.APIKey{
		ID:             id,
		WorkerID:       f.alice.ID,
		ShortToken:     "0123456789ab",
		LongSecretHash: "hash",
		Name:           "laptop",
		IsActive:       true,
		CreatedAt:      created,
	}))

	key, err := store.FindByShortToken(ctx, "0123456789ab")
	require.NoError(t, err)
	assert.Equal(t, id, key.ID)
	assert.Equal(t, f.alice.ID, key.WorkerID)
	assert.True(t, created.Equal(key.CreatedAt))
	assert.Nil(t, key.LastUsedAt)

	_, err = store.FindByShortToken(ctx, "ffffffffffff")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	t.Run("last used only moves forward", func(t *testing.T) {
		later := created.Add(time.Hour)
		require.NoError(t, store.UpdateLastUsed(ctx, id, later))
		require.NoError(t, store.UpdateLastUsed(ctx, id, created), "older timestamps are ignored")

		key, err := store.FindByShortToken(ctx, "0123456789ab")
		require.NoError(t, err)
		require.NotNil(t, key.LastUsedAt)
		assert.True(t, later.Equal(*key.LastUsedAt))
	})

	t.Run("unknown key", func(t *testing.T) {
		err := store.UpdateLastUsed(ctx, uuid.Must(uuid.NewV7()).String(), time.Now())
		assert.ErrorIs(t, err, domain.ErrNotFound)

		err = store.UpdateLastUsed(ctx, "not-a-uuid", time.Now())
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})

	t.Run("key for unknown worker", func(t *testing.T) {
		err := store.Create(ctx, &domain.APIKey{
			ID: uuid.Must(uuid.NewV7()).String(), WorkerID: 9999, ShortToken: "aaaaaaaaaaaa",
			LongSecretHash: "h", IsActive: true, CreatedAt: time.Now(),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidReference)
	})
}
