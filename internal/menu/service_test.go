package menu

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merenda-app/merenda/internal/masterdata/kits"
	"github.com/merenda-app/merenda/internal/masterdata/products"
	mdshared "github.com/merenda-app/merenda/internal/masterdata/shared"
	"github.com/merenda-app/merenda/internal/shared"
)

// fakeStore implements Repository and TxPort over in-memory maps, applying
// the same recompute rule the transactional repository applies.
type fakeStore struct {
	menus  map[int64]*DailyMenu
	nextID int64

	failCopyDates map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{menus: map[int64]*DailyMenu{}, failCopyDates: map[string]error{}}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (*DailyMenu, error) {
	m, ok := f.menus[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (f *fakeStore) FindIDByDateAndType(_ context.Context, date time.Time, menuTypeID *int64) (int64, error) {
	for _, m := range f.menus {
		if m.MenuDate.Equal(date) && sameType(m.MenuTypeID, menuTypeID) {
			return m.ID, nil
		}
	}
	return 0, ErrNotFound
}

func (f *fakeStore) ListRange(_ context.Context, from, to time.Time, menuTypeID *int64) ([]DailyMenu, error) {
	var out []DailyMenu
	for _, m := range f.menus {
		if m.MenuDate.Before(from) || !m.MenuDate.Before(to) {
			continue
		}
		if menuTypeID != nil && !sameType(m.MenuTypeID, menuTypeID) {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MenuDate.Before(out[j].MenuDate) })
	return out, nil
}

func (f *fakeStore) FindKitLink(_ context.Context, menuID, kitID int64) (int64, error) {
	m, ok := f.menus[menuID]
	if !ok {
		return 0, ErrNotFound
	}
	for _, link := range m.Kits {
		if link.KitID == kitID {
			return link.ID, nil
		}
	}
	return 0, ErrLineNotFound
}

func (f *fakeStore) Create(_ context.Context, m DailyMenu) (*DailyMenu, error) {
	m.ID = f.id()
	f.menus[m.ID] = &m
	return &m, nil
}

func (f *fakeStore) UpdateDescription(_ context.Context, id int64, description string) error {
	m, ok := f.menus[id]
	if !ok {
		return ErrNotFound
	}
	m.Description = description
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.menus[id]; !ok {
		return ErrNotFound
	}
	delete(f.menus, id)
	return nil
}

func (f *fakeStore) recompute(m *DailyMenu) float64 {
	m.TotalCost = TotalCost(m.Ingredients, m.Kits)
	return m.TotalCost
}

func (f *fakeStore) AddIngredient(_ context.Context, ing Ingredient) (int64, float64, error) {
	m, ok := f.menus[ing.MenuID]
	if !ok {
		return 0, 0, ErrNotFound
	}
	ing.ID = f.id()
	m.Ingredients = append(m.Ingredients, ing)
	return ing.ID, f.recompute(m), nil
}

func (f *fakeStore) RemoveIngredient(_ context.Context, menuID, lineID int64) (float64, error) {
	m, ok := f.menus[menuID]
	if !ok {
		return 0, ErrNotFound
	}
	for i, ing := range m.Ingredients {
		if ing.ID == lineID {
			m.Ingredients = append(m.Ingredients[:i], m.Ingredients[i+1:]...)
			return f.recompute(m), nil
		}
	}
	return 0, ErrLineNotFound
}

func (f *fakeStore) AddKit(_ context.Context, link KitLink) (float64, error) {
	m, ok := f.menus[link.MenuID]
	if !ok {
		return 0, ErrNotFound
	}
	link.ID = f.id()
	m.Kits = append(m.Kits, link)
	return f.recompute(m), nil
}

func (f *fakeStore) RemoveKit(_ context.Context, menuID, linkID int64) (float64, error) {
	m, ok := f.menus[menuID]
	if !ok {
		return 0, ErrNotFound
	}
	for i, link := range m.Kits {
		if link.ID == linkID {
			m.Kits = append(m.Kits[:i], m.Kits[i+1:]...)
			return f.recompute(m), nil
		}
	}
	return 0, ErrLineNotFound
}

func (f *fakeStore) InsertCopy(_ context.Context, m DailyMenu) (int64, error) {
	if err, ok := f.failCopyDates[m.DateKey()]; ok {
		return 0, err
	}
	m.ID = f.id()
	for i := range m.Ingredients {
		m.Ingredients[i].ID = f.id()
		m.Ingredients[i].MenuID = m.ID
	}
	for i := range m.Kits {
		m.Kits[i].ID = f.id()
		m.Kits[i].MenuID = m.ID
	}
	f.menus[m.ID] = &m
	return m.ID, nil
}

func sameType(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type fakeProducts struct {
	items map[int64]products.Product
}

func (f *fakeProducts) Get(_ context.Context, id int64) (products.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return products.Product{}, mdshared.ErrNotFound
	}
	return p, nil
}

type fakeKits struct {
	items map[int64]kits.Kit
}

func (f *fakeKits) Get(_ context.Context, id int64) (kits.Kit, error) {
	k, ok := f.items[id]
	if !ok {
		return kits.Kit{}, mdshared.ErrNotFound
	}
	return k, nil
}

type fakeCache struct {
	bumps int
}

func (f *fakeCache) Bump(context.Context) error {
	f.bumps++
	return nil
}

type fakeAudit struct {
	actions []string
}

func (f *fakeAudit) Record(_ context.Context, log shared.AuditLog) error {
	f.actions = append(f.actions, log.Action)
	return nil
}

type fixture struct {
	store    *fakeStore
	products *fakeProducts
	kits     *fakeKits
	cache    *fakeCache
	audit    *fakeAudit
	svc      *Service
}

func newFixture() *fixture {
	store := newFakeStore()
	prods := &fakeProducts{items: map[int64]products.Product{}}
	kitCat := &fakeKits{items: map[int64]kits.Kit{}}
	cache := &fakeCache{}
	audit := &fakeAudit{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		store:    store,
		products: prods,
		kits:     kitCat,
		cache:    cache,
		audit:    audit,
		svc:      NewService(logger, store, store, prods, kitCat, cache, audit),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(v int64) *int64 { return &v }

func TestCreateMenuConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.CreateMenu(ctx, CreateInput{Date: date(2026, 3, 2), MenuTypeID: ptr(1), ActorID: 7})
	require.NoError(t, err)
	assert.Equal(t, float64(0), first.TotalCost)

	_, err = f.svc.CreateMenu(ctx, CreateInput{Date: date(2026, 3, 2), MenuTypeID: ptr(1), ActorID: 7})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, f.store.menus, 1)

	// Same date under another type is a different slot.
	_, err = f.svc.CreateMenu(ctx, CreateInput{Date: date(2026, 3, 2), MenuTypeID: ptr(2), ActorID: 7})
	assert.NoError(t, err)
}

func TestAddIngredientFreezesCost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.products.items[10] = products.Product{ID: 10, Name: "Arroz", Unit: "kg", Price: 5.0}

	m, err := f.svc.CreateMenu(ctx, CreateInput{Date: date(2026, 3, 3), ActorID: 1})
	require.NoError(t, err)

	ing, total, err := f.svc.AddIngredient(ctx, m.ID, 10, 0.2, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ing.Cost, 1e-9)
	assert.InDelta(t, 1.0, total, 1e-9)

	// A later price change never touches the frozen line cost.
	f.products.items[10] = products.Product{ID: 10, Name: "Arroz", Unit: "kg", Price: 50.0}
	_, total, err = f.svc.AddIngredient(ctx, m.ID, 10, 0.1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, total, 1e-9)
	assert.InDelta(t, 1.0, f.store.menus[m.ID].Ingredients[0].Cost, 1e-9)
}

func TestAddIngredientValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m, err := f.svc.CreateMenu(ctx, CreateInput{Date: date(2026, 3, 4), ActorID: 1})
	require.NoError(t, err)

	_, _, err = f.svc.AddIngredient(ctx, m.ID, 99, 0.5, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	f.products.items[10] = products.Product{ID: 10, Price: 1}
	_, _, err = f.svc.AddIngredient(ctx, m.ID, 10, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, _, err = f.svc.AddIngredient(ctx, 999, 10, 0.5, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveIngredientRecomputes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.products.items[10] = products.Product{ID: 10, Price: 4}
	f.products.items[11] = products.Product{ID: 11, Price: 6}

	m, err := f.svc.CreateMenu(ctx, CreateInput{Date: date(2026, 3, 5), ActorID: 1})
	require.NoError(t, err)
	first, _, err := f.svc.AddIngredient(ctx, m.ID, 10, 1, 1)
	require.NoError(t, err)
	_, total, err := f.svc.AddIngredient(ctx, m.ID, 11, 1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, total, 1e-9)

	total, err = f.svc.RemoveIngredient(ctx, m.ID, first.ID, 1)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, total, 1e-9)

	_, err = f.svc.RemoveIngredient(ctx, m.ID, first.ID, 1)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestToggleKit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.kits.items[3] = kits.Kit{ID: 3, Name: "Kit Lanche", Price: 2.5}

	m, err := f.svc.CreateMenu(ctx, CreateInput{Date: date(2026, 3, 6), ActorID: 1})
	require.NoError(t, err)

	attached, total, err := f.svc.ToggleKit(ctx, m.ID, 3, 1)
	require.NoError(t, err)
	assert.True(t, attached)
	assert.InDelta(t, 2.5, total, 1e-9)

	// Kit price changes do not affect the frozen link; detaching removes the
	// frozen amount, re-attaching freezes the new price.
	f.kits.items[3] = kits.Kit{ID: 3, Name: "Kit Lanche", Price: 4.0}
	attached, total, err = f.svc.ToggleKit(ctx, m.ID, 3, 1)
	require.NoError(t, err)
	assert.False(t, attached)
	assert.InDelta(t, 0.0, total, 1e-9)

	attached, total, err = f.svc.ToggleKit(ctx, m.ID, 3, 1)
	require.NoError(t, err)
	assert.True(t, attached)
	assert.InDelta(t, 4.0, total, 1e-9)

	_, _, err = f.svc.ToggleKit(ctx, m.ID, 99, 1)
	assert.ErrorIs(t, err, ErrKitNotFound)
}

func TestMutationsBumpCacheAndAudit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.products.items[10] = products.Product{ID: 10, Price: 1}

	m, err := f.svc.CreateMenu(ctx, CreateInput{Date: date(2026, 3, 9), ActorID: 5})
	require.NoError(t, err)
	_, _, err = f.svc.AddIngredient(ctx, m.ID, 10, 1, 5)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteMenu(ctx, m.ID, 5))

	assert.Equal(t, 3, f.cache.bumps)
	assert.Equal(t, []string{shared.AuditMenuCreate, shared.AuditMenuUpdate, shared.AuditMenuDelete}, f.audit.actions)
}

func TestMonthMenusFiltersByType(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateMenu(ctx, CreateInput{Date: date(2026, 4, 1), MenuTypeID: ptr(1)})
	require.NoError(t, err)
	_, err = f.svc.CreateMenu(ctx, CreateInput{Date: date(2026, 4, 2), MenuTypeID: ptr(2)})
	require.NoError(t, err)
	_, err = f.svc.CreateMenu(ctx, CreateInput{Date: date(2026, 5, 1), MenuTypeID: ptr(1)})
	require.NoError(t, err)

	all, err := f.svc.MonthMenus(ctx, 2026, time.April, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	typed, err := f.svc.MonthMenus(ctx, 2026, time.April, ptr(1))
	require.NoError(t, err)
	require.Len(t, typed, 1)
	assert.Equal(t, "2026-04-01", typed[0].DateKey())
}
