package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	costs      []MenuCost
	totals     []CategoryTotal
	menuCalls  int
	totalCalls int
}

func (s *stubRepo) MenuCosts(context.Context, time.Time, time.Time, *int64) ([]MenuCost, error) {
	s.menuCalls++
	return s.costs, nil
}

func (s *stubRepo) CategoryTotals(context.Context, time.Time, time.Time, *int64) ([]CategoryTotal, error) {
	s.totalCalls++
	return s.totals, nil
}

func newTestService(t *testing.T) (*Service, *stubRepo, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	repo := &stubRepo{}
	return NewService(repo, cache), repo, cache
}

func TestMonthlyCachesUntilBump(t *testing.T) {
	svc, repo, cache := newTestService(t)
	ctx := context.Background()
	repo.costs = []MenuCost{{MenuDate: day(2026, 3, 2), TotalCost: 12}}
	repo.totals = []CategoryTotal{{Name: strPtr("Grãos"), Total: 12}}

	first, err := svc.Monthly(ctx, 2026, time.March, nil)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, first.Stats.TotalCost, 1e-9)
	require.Len(t, first.Categories, 1)

	// Repo changes are invisible while the cached version holds.
	repo.costs = append(repo.costs, MenuCost{MenuDate: day(2026, 3, 3), TotalCost: 8})
	cached, err := svc.Monthly(ctx, 2026, time.March, nil)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, cached.Stats.TotalCost, 1e-9)
	assert.Equal(t, 1, repo.menuCalls)

	require.NoError(t, cache.Bump(ctx))
	fresh, err := svc.Monthly(ctx, 2026, time.March, nil)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, fresh.Stats.TotalCost, 1e-9)
	assert.Equal(t, 2, repo.menuCalls)
}

func TestMonthlyKeyVariesByType(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	repo.costs = []MenuCost{{MenuDate: day(2026, 3, 2), TotalCost: 12}}

	_, err := svc.Monthly(ctx, 2026, time.March, nil)
	require.NoError(t, err)
	typeID := int64(2)
	_, err = svc.Monthly(ctx, 2026, time.March, &typeID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.menuCalls)
}

func TestAnnualCached(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	repo.costs = []MenuCost{{MenuDate: day(2026, 2, 2), TotalCost: 10}}

	report, err := svc.Annual(ctx, 2026, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.DaysPlanned)

	_, err = svc.Annual(ctx, 2026, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.menuCalls)
}

func TestCompareRejectsEmptyRange(t *testing.T) {
	svc, _, _ := newTestService(t)
	from := day(2026, 3, 1)
	_, err := svc.Compare(context.Background(), from, from)
	assert.Error(t, err)
}
