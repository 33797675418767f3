package repository

import (
	"context"
	"testing"
	"time"

	"staybook/internal/config"
	"staybook/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCartRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := NewRedisClient(config.RedisConfig{Address: s.Addr()})
	defer client.Close()

	repo := NewRedisCartRepository(client, time.Hour)
	ctx := context.Background()
	lines := []models.OrderLine{
		{Item: models.FoodItem{ID: 1, Name: "Butter Naan", Category: "bread", Price: 100}, Quantity: 2},
		{Item: models.FoodItem{ID: 2, Name: "Lassi", Category: "drinks", Price: 50}, Quantity: 1},
	}

	t.Run("SaveAndGet", func(t *testing.T) {
		require.NoError(t, repo.SaveLines(ctx, "abc", lines))

		got, err := repo.GetLines(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, lines, got)
		assert.True(t, s.Exists("cart:abc"))
	})

	t.Run("GetNonExistent", func(t *testing.T) {
		got, err := repo.GetLines(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("TTL", func(t *testing.T) {
		require.NoError(t, repo.SaveLines(ctx, "ttl", lines))
		s.FastForward(time.Hour + time.Second)

		got, err := repo.GetLines(ctx, "ttl")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, repo.SaveLines(ctx, "gone", lines))
		require.NoError(t, repo.ClearLines(ctx, "gone"))

		got, _ := repo.GetLines(ctx, "gone")
		assert.Nil(t, got)
	})

	t.Run("CorruptPayload", func(t *testing.T) {
		require.NoError(t, s.Set("cart:bad", "{not json"))
		_, err := repo.GetLines(ctx, "bad")
		assert.Error(t, err)
	})

	t.Run("NilClient", func(t *testing.T) {
		repo := NewRedisCartRepository(nil, time.Hour)
		_, err := repo.GetLines(ctx, "abc")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
		assert.Error(t, repo.SaveLines(ctx, "abc", lines))
		assert.Error(t, repo.ClearLines(ctx, "abc"))
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})

	t.Run("ServerDown", func(t *testing.T) {
		s.SetError("LOADING")
		defer s.SetError("")
		_, err := repo.GetLines(ctx, "abc")
		assert.Error(t, err)
	})

	t.Run("Close", func(t *testing.T) {
		other := NewRedisClient(config.RedisConfig{Address: s.Addr()})
		assert.NoError(t, Close(other))
		assert.NoError(t, Close(nil))
	})
}
