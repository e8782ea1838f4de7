package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMenu(t *testing.T, f *fixture, day time.Time, typeID *int64, ingredients []Ingredient, kitLinks []KitLink) *DailyMenu {
	t.Helper()
	m, err := f.store.Create(context.Background(), DailyMenu{MenuDate: day, MenuTypeID: typeID})
	require.NoError(t, err)
	m.Ingredients = ingredients
	m.Kits = kitLinks
	f.store.recompute(m)
	return m
}

func TestDuplicateMenuCopiesEveryLine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	source := seedMenu(t, f, date(2026, 6, 1), ptr(1),
		[]Ingredient{{ID: 100, ProductID: 10, PerCapita: 0.2, Cost: 1.0}, {ID: 101, ProductID: 11, PerCapita: 0.5, Cost: 2.5}},
		[]KitLink{{ID: 102, KitID: 3, Cost: 0.75}},
	)
	source.Description = "Arroz com feijão"
	f.store.menus[source.ID] = source

	copied, err := f.svc.DuplicateMenu(ctx, source.ID, date(2026, 6, 8), nil, 9)
	require.NoError(t, err)

	assert.Equal(t, "Arroz com feijão", copied.Description)
	assert.Equal(t, source.MenuTypeID, copied.MenuTypeID)
	assert.InDelta(t, source.TotalCost, copied.TotalCost, 1e-9)
	require.Len(t, copied.Ingredients, 2)
	require.Len(t, copied.Kits, 1)
	for i, ing := range copied.Ingredients {
		assert.Equal(t, source.Ingredients[i].ProductID, ing.ProductID)
		assert.Equal(t, source.Ingredients[i].PerCapita, ing.PerCapita)
		assert.Equal(t, source.Ingredients[i].Cost, ing.Cost)
	}
	assert.Equal(t, source.Kits[0].KitID, copied.Kits[0].KitID)
	assert.Equal(t, source.Kits[0].Cost, copied.Kits[0].Cost)
}

func TestDuplicateMenuTargetType(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	source := seedMenu(t, f, date(2026, 6, 1), ptr(1), nil, nil)

	copied, err := f.svc.DuplicateMenu(ctx, source.ID, date(2026, 6, 1), ptr(2), 9)
	require.NoError(t, err)
	require.NotNil(t, copied.MenuTypeID)
	assert.Equal(t, int64(2), *copied.MenuTypeID)
}

func TestDuplicateMenuConflictCreatesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	source := seedMenu(t, f, date(2026, 6, 1), ptr(1), []Ingredient{{Cost: 1}}, nil)
	seedMenu(t, f, date(2026, 6, 8), ptr(1), nil, nil)
	before := len(f.store.menus)

	_, err := f.svc.DuplicateMenu(ctx, source.ID, date(2026, 6, 8), nil, 9)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, f.store.menus, before)
}

func TestDuplicateMenuTypeCounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seedMenu(t, f, date(2026, 6, 1), ptr(1), []Ingredient{{Cost: 2}}, nil)
	seedMenu(t, f, date(2026, 6, 2), ptr(1), []Ingredient{{Cost: 3}}, nil)
	seedMenu(t, f, date(2026, 6, 3), ptr(1), nil, nil)
	// Target type already occupies June 2nd.
	seedMenu(t, f, date(2026, 6, 2), ptr(2), nil, nil)

	result, err := f.svc.DuplicateMenuType(ctx, 1, 2, 2026, time.June, 9)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Duplicated)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Failed)

	copied, err := f.store.ListRange(ctx, date(2026, 6, 1), date(2026, 7, 1), ptr(2))
	require.NoError(t, err)
	assert.Len(t, copied, 3)
}

func TestDuplicateMenuTypeEmptyMonth(t *testing.T) {
	f := newFixture()
	_, err := f.svc.DuplicateMenuType(context.Background(), 1, 2, 2026, time.June, 9)
	assert.ErrorIs(t, err, ErrNoSourceMenus)
}

func TestDuplicateMenuTypeSameType(t *testing.T) {
	f := newFixture()
	_, err := f.svc.DuplicateMenuType(context.Background(), 1, 1, 2026, time.June, 9)
	assert.ErrorIs(t, err, ErrSameTypeTarget)
}

func TestDuplicateMenuTypeCollectsFailures(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seedMenu(t, f, date(2026, 6, 1), ptr(1), nil, nil)
	seedMenu(t, f, date(2026, 6, 2), ptr(1), nil, nil)
	f.store.failCopyDates["2026-06-01"] = errors.New("insert failed")

	result, err := f.svc.DuplicateMenuType(ctx, 1, 2, 2026, time.June, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Duplicated)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "2026-06-01", result.Failed[0].MenuDate)
	assert.Contains(t, result.Failed[0].Reason, "insert failed")
}
