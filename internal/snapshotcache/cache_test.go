package snapshotcache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/finrecon/internal/config"
	"github.com/fastprodman/finrecon/internal/domain"
	"github.com/fastprodman/finrecon/internal/services/recon"
)

func sampleSnapshot() recon.Snapshot {
	from := time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC)

	return recon.Snapshot{
		ComputedAt: time.Date(2025, 3, 2, 3, 0, 5, 0, time.UTC),
		Range:      domain.NewDateRange(from, to),
		RangeLabel: "2025-03-01T03:00:00Z .. 2025-03-02T03:00:00Z",
		Cash:       recon.CashReserve{TotalDeposits: 1000, RealCash: 800, AvailableToOperator: -100},
		Alerts: recon.Alerts{
			InsufficientCash: true,
			BonusRatioPct:    decimal.RequireFromString("12.5"),
		},
		Warnings: []string{"deposits: row cap reached, sums are partial"},
	}
}

func testCaches(t *testing.T) map[string]Cache {
	t.Helper()

	caches := map[string]Cache{"memory": NewMemory()}

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		return caches
	}

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()

	rc, err := NewRedis(ctx, config.RedisConfig{Addr: addr, TTL: time.Minute})
	if err != nil {
		t.Logf("redis at %s not reachable, skipping: %v", addr, err)
		return caches
	}

	t.Cleanup(func() { _ = rc.Close() })

	caches["redis"] = rc

	return caches
}

func TestCache_PutGet(t *testing.T) {
	t.Parallel()

	for name, c := range testCaches(t) {
		t.Run(name, func(t *testing.T) {
			key := "test_" + t.Name() + time.Now().Format("150405.000000000")

			_, err := c.Get(t.Context(), key)
			require.ErrorIs(t, err, ErrNotFound)

			want := sampleSnapshot()
			require.NoError(t, c.Put(t.Context(), key, want))

			got, err := c.Get(t.Context(), key)
			require.NoError(t, err)

			assert.Equal(t, want.Cash, got.Cash)
			assert.Equal(t, want.RangeLabel, got.RangeLabel)
			assert.Equal(t, want.Warnings, got.Warnings)
			assert.True(t, want.ComputedAt.Equal(got.ComputedAt))
			assert.True(t, want.Alerts.BonusRatioPct.Equal(got.Alerts.BonusRatioPct))
			require.NotNil(t, got.Range.From)
			assert.True(t, want.Range.From.Equal(*got.Range.From))

			newer := sampleSnapshot()
			newer.Cash.AvailableToOperator = 42
			require.NoError(t, c.Put(t.Context(), key, newer))

			got, err = c.Get(t.Context(), key)
			require.NoError(t, err)
			assert.Equal(t, int64(42), got.Cash.AvailableToOperator)
		})
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "recon:snapshot:v1:today", Key("today"))
}
