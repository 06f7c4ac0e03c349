//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/infrastructure/redis"
	"github.com/jhoicas/Caja-api/pkg/config"
)

func TestCashRegisterCache(t *testing.T) {
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cache, err := redis.Open(ctx, config.RedisConfig{URL: url, KeyPrefix: "test", TTLHours: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	_, err = cache.Get(ctx, "u", "2024-05-10")
	assert.ErrorIs(t, err, domain.ErrNotCached)

	require.NoError(t, cache.Put(ctx, "u", "2024-05-10", nil))
	got, err := cache.Get(ctx, "u", "2024-05-10")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Put(ctx, "u", "2024-05-10", &entity.CashRegisterSummary{
		UserID: "u", Date: "2024-05-10", SalesTotal: decimal.RequireFromString("12.50"), ExpensesTotal: decimal.Zero, UpdatedAt: time.Now(),
	}))
	got, err = cache.Get(ctx, "u", "2024-05-10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "12.5", got.SalesTotal.String())
	assert.Equal(t, "2024-05-10", got.Date)
}
