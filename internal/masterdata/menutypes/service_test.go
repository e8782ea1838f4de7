package menutypes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merenda-app/merenda/internal/masterdata/shared"
)

type fakeRepo struct {
	types   map[int64]MenuType
	withUse map[int64]bool
	nextID  int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{types: make(map[int64]MenuType), withUse: make(map[int64]bool), nextID: 1}
}

func (f *fakeRepo) List(ctx context.Context) ([]MenuType, error) {
	out := make([]MenuType, 0, len(f.types))
	for _, mt := range f.types {
		out = append(out, mt)
	}
	return out, nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (MenuType, error) {
	mt, ok := f.types[id]
	if !ok {
		return MenuType{}, shared.ErrNotFound
	}
	return mt, nil
}

func (f *fakeRepo) Create(ctx context.Context, mt MenuType) (MenuType, error) {
	mt.ID = f.nextID
	f.nextID++
	f.types[mt.ID] = mt
	return mt, nil
}

func (f *fakeRepo) Update(ctx context.Context, id int64, mt MenuType) error {
	if _, ok := f.types[id]; !ok {
		return shared.ErrNotFound
	}
	mt.ID = id
	f.types[id] = mt
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.types[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.types, id)
	return nil
}

func (f *fakeRepo) HasMenus(ctx context.Context, id int64) (bool, error) {
	return f.withUse[id], nil
}

func TestDeleteRefusedWhileInUse(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), MenuType{Name: "Almoço"})
	require.NoError(t, err)
	repo.withUse[created.ID] = true

	err = svc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrInUse)
	_, err = svc.Get(context.Background(), created.ID)
	assert.NoError(t, err)

	repo.withUse[created.ID] = false
	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), MenuType{Name: "   "})
	assert.Error(t, err)
}

func TestDeleteRejectsInvalidID(t *testing.T) {
	svc := NewService(newFakeRepo())

	assert.ErrorIs(t, svc.Delete(context.Background(), 0), shared.ErrInvalidID)
}
