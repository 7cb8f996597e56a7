package repo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/wine_catalog/internal/models"
	"github.com/Skotchmaster/wine_catalog/internal/repo"
	"github.com/Skotchmaster/wine_catalog/internal/testutil"
)

func newProductStore(t *testing.T) *repo.GormStore[models.Product] {
	t.Helper()
	return repo.NewGormStore[models.Product](testutil.NewDB(t), time.Second, "name", "brand", "sku")
}

func product(name, sku string) *models.Product {
	return &models.Product{
		Name:      name,
		Brand:     "Domaine Test",
		NetVolume: "0.75 L",
		Type:      "wine",
		SKU:       sku,
		Country:   "France",
		QRCode:    "data:image/png;base64,AA==",
	}
}

func TestGormStore_ListPagination(t *testing.T) {
	t.Parallel()

	store := newProductStore(t)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		require.NoError(t, store.Insert(ctx, product(fmt.Sprintf("Wine %02d", i), fmt.Sprintf("SKU-%02d", i))))
	}

	tests := []struct {
		offset int
		want   int
	}{
		{offset: 0, want: 10},
		{offset: 10, want: 10},
		{offset: 20, want: 5},
		{offset: 30, want: 0},
	}
	seen := map[uuid.UUID]bool{}
	for _, tt := range tests {
		items, total, err := store.List(ctx, repo.ListQuery{Offset: tt.offset, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 25, total)
		assert.Len(t, items, tt.want)
		for _, it := range items {
			assert.False(t, seen[it.ID], "row returned on two pages")
			seen[it.ID] = true
		}
	}
	assert.Len(t, seen, 25)
}

func TestGormStore_ListSearch(t *testing.T) {
	t.Parallel()

	store := newProductStore(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, product("Chardonnay Reserve", "CH-1")))
	require.NoError(t, store.Insert(ctx, product("Pinot Noir", "PN-1")))
	require.NoError(t, store.Insert(ctx, product("Merlot", "chard-sku")))
	require.NoError(t, store.Insert(ctx, product("100% Grape", "PCT-1")))

	items, total, err := store.List(ctx, repo.ListQuery{Limit: 10, Search: "chard"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)

	items, total, err = store.List(ctx, repo.ListQuery{Limit: 10, Search: "CHARDONNAY"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Chardonnay Reserve", items[0].Name)

	_, total, err = store.List(ctx, repo.ListQuery{Limit: 10, Search: "%"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "wildcards in the term are literal")

	_, total, err = store.List(ctx, repo.ListQuery{Limit: 1, Search: "  "})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
}

func TestGormStore_InsertDuplicate(t *testing.T) {
	t.Parallel()

	store := newProductStore(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, product("A", "DUP")))

	err := store.Insert(ctx, product("B", "DUP"))
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestGormStore_GetUpdateDelete(t *testing.T) {
	t.Parallel()

	store := newProductStore(t)
	ctx := context.Background()
	p := product("Rosé", "R-1")
	require.NoError(t, store.Insert(ctx, p))

	got, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rosé", got.Name)

	_, err = store.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repo.ErrNotFound)

	time.Sleep(5 * time.Millisecond)
	updated, err := store.Update(ctx, p.ID, map[string]any{"name": "Rosé 2020"})
	require.NoError(t, err)
	assert.Equal(t, "Rosé 2020", updated.Name)
	assert.Equal(t, "R-1", updated.SKU)
	assert.True(t, updated.UpdatedAt.After(got.UpdatedAt))

	_, err = store.Update(ctx, uuid.New(), map[string]any{"name": "x"})
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, store.Delete(ctx, p.ID))
	assert.ErrorIs(t, store.Delete(ctx, p.ID), repo.ErrNotFound)

	_, total, err := store.List(ctx, repo.ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGormStore_InsertBatchIsAtomic(t *testing.T) {
	t.Parallel()

	store := newProductStore(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, product("Existing", "TAKEN")))

	batch := []models.Product{*product("One", "B-1"), *product("Two", "TAKEN"), *product("Three", "B-3")}
	err := store.InsertBatch(ctx, batch)
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	_, total, err := store.List(ctx, repo.ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	ok := []models.Product{*product("One", "B-1"), *product("Two", "B-2")}
	require.NoError(t, store.InsertBatch(ctx, ok))
	_, total, err = store.List(ctx, repo.ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestGormStore_SelectDistinctAndFindAll(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	store := repo.NewGormStore[models.Ingredient](db, time.Second, "name", "category", "e_number")
	ctx := context.Background()

	for _, in := range []models.Ingredient{
		{Name: "Sulphites", Category: "preservative"},
		{Name: "Sugar", Category: "sweetener"},
		{Name: "Sorbate", Category: "preservative"},
	} {
		in := in
		require.NoError(t, store.Insert(ctx, &in))
	}

	cats, err := store.SelectDistinct(ctx, "category")
	require.NoError(t, err)
	assert.Equal(t, []string{"preservative", "sweetener"}, cats)

	items, err := store.FindAll(ctx, map[string]any{"category": "preservative"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = store.FindAll(ctx, map[string]any{"category": "Preservative"})
	require.NoError(t, err)
	assert.Empty(t, items)

	dup := models.Ingredient{Name: "Sugar", Category: "sweetener"}
	assert.ErrorIs(t, store.Insert(ctx, &dup), repo.ErrDuplicate)

	other := models.Ingredient{Name: "Sugar", Category: "preservative"}
	assert.NoError(t, store.Insert(ctx, &other))
}
