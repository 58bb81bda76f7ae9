package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*CodeStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCodeStore(client, 15*time.Minute), mr
}

func TestCodeStoreConsume(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, PurposeActivation, "user-1", "123456"))

	t.Run("wrong code keeps the stored one", func(t *testing.T) {
		err := store.Consume(ctx, PurposeActivation, "user-1", "000000")
		assert.ErrorIs(t, err, ErrCodeMismatch)

		// still consumable with the right code afterwards
		assert.NoError(t, store.Consume(ctx, PurposeActivation, "user-1", "123456"))
	})

	t.Run("consume is one-shot", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, PurposeActivation, "user-2", "654321"))
		require.NoError(t, store.Consume(ctx, PurposeActivation, "user-2", "654321"))
		assert.ErrorIs(t, store.Consume(ctx, PurposeActivation, "user-2", "654321"), ErrCodeMismatch)
	})

	t.Run("missing code", func(t *testing.T) {
		assert.ErrorIs(t, store.Consume(ctx, PurposeActivation, "nobody", "123456"), ErrCodeMismatch)
	})
}

func TestCodeStorePurposesAreIsolated(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, PurposeActivation, "user-1", "123456"))

	// an activation code must not work as a password reset code
	assert.ErrorIs(t, store.Consume(ctx, PurposePasswordReset, "user-1", "123456"), ErrCodeMismatch)
	assert.NoError(t, store.Consume(ctx, PurposeActivation, "user-1", "123456"))
}

func TestCodeStoreExpiry(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, PurposePasswordReset, "user-1", "123456"))
	mr.FastForward(16 * time.Minute)

	assert.ErrorIs(t, store.Consume(ctx, PurposePasswordReset, "user-1", "123456"), ErrCodeMismatch)
}

func TestCodeStoreOverwrite(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, PurposeActivation, "user-1", "111111"))
	require.NoError(t, store.Save(ctx, PurposeActivation, "user-1", "222222"))

	assert.ErrorIs(t, store.Consume(ctx, PurposeActivation, "user-1", "111111"), ErrCodeMismatch)
	assert.NoError(t, store.Consume(ctx, PurposeActivation, "user-1", "222222"))
}
