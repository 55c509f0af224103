package accounts_test

import (
	"context"
	"testing"
	"time"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoQuotaUnseenDateHasFullLimit(t *testing.T) {
	ctx := context.Background()
	quota := accounts.NewDemoQuota(accounts.NewMemoryStore())

	remaining, err := quota.Remaining(ctx, "Tue Jul 08 2025")
	require.NoError(t, err)
	assert.Equal(t, accounts.DemoDailyLimit, remaining)

	consumed, err := quota.Consumed(ctx, "Tue Jul 08 2025")
	require.NoError(t, err)
	assert.Equal(t, 0, consumed)
}

func TestDemoQuotaArithmeticClampsAtZero(t *testing.T) {
	ctx := context.Background()
	quota := accounts.NewDemoQuota(accounts.NewMemoryStore())
	date := "Tue Jul 08 2025"

	require.NoError(t, quota.Record(ctx, date, 3000))
	remaining, err := quota.Remaining(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 2000, remaining)

	// the tracker never refuses a write past the limit
	require.NoError(t, quota.Record(ctx, date, 2500))

	remaining, err = quota.Remaining(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	consumed, err := quota.Consumed(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 5500, consumed)
}

func TestDemoQuotaTracksDatesIndependently(t *testing.T) {
	ctx := context.Background()
	quota := accounts.NewDemoQuota(accounts.NewMemoryStore())

	require.NoError(t, quota.Record(ctx, "Mon Jul 07 2025", 4000))
	require.NoError(t, quota.Record(ctx, "Tue Jul 08 2025", 100))

	remaining, err := quota.Remaining(ctx, "Tue Jul 08 2025")
	require.NoError(t, err)
	assert.Equal(t, accounts.DemoDailyLimit-100, remaining)
}

func TestDemoQuotaRejectsNegativeCounts(t *testing.T) {
	ctx := context.Background()
	quota := accounts.NewDemoQuota(accounts.NewMemoryStore())

	err := quota.Record(ctx, "Tue Jul 08 2025", -1)
	assert.Error(t, err)
}

func TestDemoQuotaHealsMalformedValues(t *testing.T) {
	ctx := context.Background()
	store := accounts.NewMemoryStore()
	quota := accounts.NewDemoQuota(store)

	raw := []byte(`{"Tue Jul 08 2025":"garbage","Mon Jul 07 2025":200,"Sun Jul 06 2025":-9}`)
	require.NoError(t, store.Set(ctx, accounts.CollectionDemoUsage, raw))

	remaining, err := quota.Remaining(ctx, "Tue Jul 08 2025")
	require.NoError(t, err)
	assert.Equal(t, accounts.DemoDailyLimit, remaining)

	// intact values are untouched, malformed ones were overwritten with zero
	consumed, err := quota.Consumed(ctx, "Mon Jul 07 2025")
	require.NoError(t, err)
	assert.Equal(t, 200, consumed)

	healed, err := store.Get(ctx, accounts.CollectionDemoUsage)
	require.NoError(t, err)
	assert.NotContains(t, string(healed), "garbage")
	assert.NotContains(t, string(healed), "-9")
}

func TestDemoQuotaHealsUnreadableDocument(t *testing.T) {
	ctx := context.Background()
	store := accounts.NewMemoryStore()
	quota := accounts.NewDemoQuota(store)

	require.NoError(t, store.Set(ctx, accounts.CollectionDemoUsage, []byte(`not json`)))

	remaining, err := quota.Remaining(ctx, "Tue Jul 08 2025")
	require.NoError(t, err)
	assert.Equal(t, accounts.DemoDailyLimit, remaining)

	require.NoError(t, quota.Record(ctx, "Tue Jul 08 2025", 10))
	consumed, err := quota.Consumed(ctx, "Tue Jul 08 2025")
	require.NoError(t, err)
	assert.Equal(t, 10, consumed)
}

func TestDemoQuotaHistoryLimitPrunesOldestDates(t *testing.T) {
	ctx := context.Background()
	quota := accounts.NewDemoQuota(accounts.NewMemoryStore(), accounts.WithHistoryLimit(2))

	require.NoError(t, quota.Record(ctx, "Sun Jul 06 2025", 1))
	require.NoError(t, quota.Record(ctx, "Mon Jul 07 2025", 2))
	require.NoError(t, quota.Record(ctx, "Tue Jul 08 2025", 3))

	consumed, err := quota.Consumed(ctx, "Sun Jul 06 2025")
	require.NoError(t, err)
	assert.Equal(t, 0, consumed)

	consumed, err = quota.Consumed(ctx, "Tue Jul 08 2025")
	require.NoError(t, err)
	assert.Equal(t, 3, consumed)
}

func TestDemoQuotaTodayUsesInjectedClock(t *testing.T) {
	fixed := time.Date(2025, 7, 8, 15, 4, 5, 0, time.UTC)
	quota := accounts.NewDemoQuota(accounts.NewMemoryStore(),
		accounts.WithDemoClock(func() time.Time { return fixed }))

	assert.Equal(t, "Tue Jul 08 2025", quota.Today())
	assert.Equal(t, "Tue Jul 08 2025", accounts.DateKey(fixed))
}
