package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linegroup/authcore/internal/domain/service"
	redisinfra "github.com/linegroup/authcore/internal/infrastructure/redis"
)

func TestRefreshStore_SaveAndConsume(t *testing.T) {
	_, client := newStoreFixture(t)
	store := redisinfra.NewRefreshStore(client, "", 0)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "refresh-1", "42", time.Minute))

	subject, err := store.Consume(ctx, "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "42", subject)
}

func TestRefreshStore_ConsumeIsSingleUse(t *testing.T) {
	_, client := newStoreFixture(t)
	store := redisinfra.NewRefreshStore(client, "", 0)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "refresh-1", "42", time.Minute))

	_, err := store.Consume(ctx, "refresh-1")
	require.NoError(t, err)

	_, err = store.Consume(ctx, "refresh-1")
	assert.ErrorIs(t, err, service.ErrRefreshNotFound)
}

func TestRefreshStore_ConsumeUnknownID(t *testing.T) {
	_, client := newStoreFixture(t)
	store := redisinfra.NewRefreshStore(client, "", 0)

	_, err := store.Consume(context.Background(), "never-saved")
	assert.ErrorIs(t, err, service.ErrRefreshNotFound)
}

func TestRefreshStore_RecordExpires(t *testing.T) {
	s, client := newStoreFixture(t)
	store := redisinfra.NewRefreshStore(client, "", 0)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "refresh-1", "42", time.Second))
	s.FastForward(2 * time.Second)

	_, err := store.Consume(ctx, "refresh-1")
	assert.ErrorIs(t, err, service.ErrRefreshNotFound)
}

func TestRefreshStore_Delete(t *testing.T) {
	_, client := newStoreFixture(t)
	store := redisinfra.NewRefreshStore(client, "", 0)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "refresh-1", "42", time.Minute))
	require.NoError(t, store.Delete(ctx, "refresh-1"))

	_, err := store.Consume(ctx, "refresh-1")
	assert.ErrorIs(t, err, service.ErrRefreshNotFound)

	// Deleting an absent record stays quiet.
	require.NoError(t, store.Delete(ctx, "refresh-1"))
}
