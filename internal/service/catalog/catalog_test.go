package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/tossplace/internal/models"
	"github.com/Skotchmaster/tossplace/internal/repo"
	"github.com/Skotchmaster/tossplace/pkg/db"
	"github.com/Skotchmaster/tossplace/pkg/errs"
)

func newTestService(t *testing.T) *CatalogService {
	t.Helper()
	ctx := context.Background()

	store := db.New(nil)
	require.NoError(t, store.Open(ctx, filepath.Join(t.TempDir(), "catalog.db")))
	require.NoError(t, store.ApplySchema(ctx))
	t.Cleanup(func() { _ = store.Close() })

	return New(repo.New(store))
}

func newSeller(t *testing.T, s *CatalogService, name string) int64 {
	t.Helper()
	u := models.User{Username: name, Email: name + "@example.com", PasswordHash: "x", FullName: name, Active: true}
	require.NoError(t, s.Repo.CreateUser(context.Background(), &u))
	return u.ID
}

func mustCreate(t *testing.T, s *CatalogService, p models.Product) *models.Product {
	t.Helper()
	out, err := s.Create(context.Background(), p)
	require.NoError(t, err)
	return out
}

func ids(ps []models.Product) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestCatalogService_GamingLaptopScenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestService(t)

	p := mustCreate(t, s, models.Product{
		Title:    "Gaming Laptop",
		Price:    decimal.NewFromInt(1500000),
		Quantity: 1,
	})
	assert.NotZero(t, p.ID)
	assert.True(t, p.Available)
	assert.Equal(t, models.ConditionUsed, p.Condition)

	all, err := s.GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Gaming Laptop", all[0].Title)
	assert.True(t, all[0].Available)
	assert.True(t, decimal.NewFromInt(1500000).Equal(all[0].Price))

	require.NoError(t, s.MarkSold(ctx, p.ID))
	require.NoError(t, s.MarkSold(ctx, p.ID), "mark sold is idempotent")

	all, err = s.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Equal(t, 1, got.Quantity)
}

func TestCatalogService_ImagesRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestService(t)

	with := mustCreate(t, s, models.Product{Title: "Camera", Quantity: 1, Images: models.ImageList{"a.jpg", "b.jpg"}})
	without := mustCreate(t, s, models.Product{Title: "Lens", Quantity: 1})

	got, err := s.GetByID(ctx, with.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ImageList{"a.jpg", "b.jpg"}, got.Images)

	got, err = s.GetByID(ctx, without.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Images)
	assert.Empty(t, got.Images)
}

func TestCatalogService_Create_Validation(t *testing.T) {
	t.Parallel()

	s := newTestService(t)

	tests := []struct {
		name string
		p    models.Product
		want error
	}{
		{"empty title", models.Product{Title: " "}, errs.ErrValidation},
		{"negative price", models.Product{Title: "x", Price: decimal.NewFromInt(-1)}, errs.ErrValidation},
		{"negative original price", models.Product{Title: "x", OriginalPrice: decimal.NewFromInt(-1)}, errs.ErrValidation},
		{"negative quantity", models.Product{Title: "x", Quantity: -1}, errs.ErrValidation},
		{"discount over 100", models.Product{Title: "x", DiscountPercent: 101}, errs.ErrValidation},
		{"bad condition", models.Product{Title: "x", Condition: "broken"}, errs.ErrValidation},
		{"comma in image", models.Product{Title: "x", Images: models.ImageList{"a,b.jpg"}}, errs.ErrValidation},
		{"unknown seller", models.Product{Title: "x", SellerID: func() *int64 { v := int64(42); return &v }()}, errs.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), tt.p)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCatalogService_Create_ReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestService(t)

	p := mustCreate(t, s, models.Product{Title: "Desk", Quantity: 2, Images: models.ImageList{"a.jpg"}})
	p.Title = "changed"
	p.Images[0] = "changed.jpg"

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk", got.Title)
	assert.Equal(t, models.ImageList{"a.jpg"}, got.Images)
}

func TestCatalogService_Update(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestService(t)

	p := mustCreate(t, s, models.Product{Title: "Desk", Price: decimal.NewFromInt(100), Quantity: 2})

	edit := *p
	edit.Title = "Oak Desk"
	edit.Price = decimal.RequireFromString("120.50")
	edit.Condition = models.ConditionLikeNew
	edit.Images = models.ImageList{"oak.jpg"}

	updated, err := s.Update(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, "Oak Desk", updated.Title)
	assert.True(t, decimal.RequireFromString("120.50").Equal(updated.Price))
	assert.Equal(t, models.ConditionLikeNew, updated.Condition)
	assert.Equal(t, models.ImageList{"oak.jpg"}, updated.Images)
	assert.False(t, updated.UpdatedAt.Before(p.UpdatedAt))
	assert.True(t, p.CreatedAt.Equal(updated.CreatedAt))

	edit.ID = 999
	_, err = s.Update(ctx, edit)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	edit.ID = p.ID
	edit.Title = ""
	_, err = s.Update(ctx, edit)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCatalogService_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestService(t)

	p := mustCreate(t, s, models.Product{Title: "Desk", Quantity: 1})
	require.NoError(t, s.Delete(ctx, p.ID))

	_, err := s.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, p.ID), errs.ErrNotFound)
}

func TestCatalogService_AdjustStock_FlipsAvailability(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestService(t)

	p := mustCreate(t, s, models.Product{Title: "Mug", Quantity: 3})

	got, err := s.AdjustStock(ctx, p.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
	assert.False(t, got.Available)

	_, err = s.AdjustStock(ctx, p.ID, -1)
	assert.ErrorIs(t, err, errs.ErrValidation)

	got, err = s.AdjustStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.True(t, got.Available)

	stored, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Quantity)
	assert.True(t, stored.Available)

	_, err = s.AdjustStock(ctx, 999, 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCatalogService_Search(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestService(t)

	lamp := mustCreate(t, s, models.Product{Title: "Desk Lamp", Quantity: 1})
	chair := mustCreate(t, s, models.Product{Title: "Chair", Description: "fits any DESK", Quantity: 1})
	mustCreate(t, s, models.Product{Title: "Sofa", Quantity: 1})
	sold := mustCreate(t, s, models.Product{Title: "Desk", Quantity: 1})
	require.NoError(t, s.MarkSold(ctx, sold.ID))
	mustCreate(t, s, models.Product{Title: "100% cotton", Quantity: 1})

	got, err := s.Search(ctx, "desk")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{lamp.ID, chair.ID}, ids(got))

	got, err = s.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 4)

	got, err = s.Search(ctx, "0%")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCatalogService_FilterByPriceRange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestService(t)

	cheap := mustCreate(t, s, models.Product{Title: "a", Price: decimal.NewFromInt(100), Quantity: 1})
	mid := mustCreate(t, s, models.Product{Title: "b", Price: decimal.NewFromInt(500), Quantity: 1})
	mustCreate(t, s, models.Product{Title: "c", Price: decimal.NewFromInt(900), Quantity: 1})
	hidden := mustCreate(t, s, models.Product{Title: "d", Price: decimal.NewFromInt(300), Quantity: 1})
	require.NoError(t, s.MarkSold(ctx, hidden.ID))

	got, err := s.FilterByPriceRange(ctx, decimal.NewFromInt(100), decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.Equal(t, []int64{cheap.ID, mid.ID}, ids(got))

	_, err = s.FilterByPriceRange(ctx, decimal.NewFromInt(10), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCatalogService_Listings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestService(t)
	seller := newSeller(t, s, "kim")

	first := mustCreate(t, s, models.Product{Title: "a", Category: "books", Region: "Seoul", Condition: models.ConditionNew, Quantity: 1, SellerID: &seller})
	second := mustCreate(t, s, models.Product{Title: "b", Category: "books", Region: "Busan", Quantity: 1, SellerID: &seller})
	other := mustCreate(t, s, models.Product{Title: "c", Category: "games", Region: "Seoul", Quantity: 1})
	require.NoError(t, s.MarkSold(ctx, second.ID))

	all, err := s.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{other.ID, first.ID}, ids(all), "newest first")

	books, err := s.GetByCategory(ctx, "books")
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID}, ids(books))

	seoul, err := s.GetByRegion(ctx, "Seoul")
	require.NoError(t, err)
	assert.Equal(t, []int64{other.ID, first.ID}, ids(seoul))

	used, err := s.FilterByCondition(ctx, models.ConditionUsed)
	require.NoError(t, err)
	assert.Equal(t, []int64{other.ID}, ids(used))

	_, err = s.FilterByCondition(ctx, "broken")
	assert.ErrorIs(t, err, errs.ErrValidation)

	mine, err := s.GetSellerProducts(ctx, seller)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{first.ID, second.ID}, ids(mine), "includes sold items")

	cats, err := s.GetCategories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"books", "games"}, cats)
}

func TestCatalogService_Counters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestService(t)

	p := mustCreate(t, s, models.Product{Title: "Bike", Quantity: 1})

	n, err := s.RecordView(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.RecordView(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.Like(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Like(ctx, 999)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCatalogService_Search_NonASCIICase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestService(t)

	screen := mustCreate(t, s, models.Product{Title: "ÉCRAN Samsung", Quantity: 1})
	mustCreate(t, s, models.Product{Title: "Clavier", Description: "Touches RÉTROÉCLAIRÉES", Quantity: 1})

	for _, q := range []string{"ÉCRAN", "écran", "Écran samsung"} {
		got, err := s.Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []int64{screen.ID}, ids(got), q)
	}

	got, err := s.Search(ctx, "rétroéclairées")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	edit := *screen
	edit.Title = "MONITEUR"
	_, err = s.Update(ctx, edit)
	require.NoError(t, err)

	got, err = s.Search(ctx, "écran")
	require.NoError(t, err)
	assert.Empty(t, got)
	got, err = s.Search(ctx, "moniteur")
	require.NoError(t, err)
	assert.Equal(t, []int64{screen.ID}, ids(got))
}

func TestCatalogService_Update_KeepsCounters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestService(t)

	p := mustCreate(t, s, models.Product{Title: "Bike", Quantity: 1})
	stale := *p

	_, err := s.RecordView(ctx, p.ID)
	require.NoError(t, err)
	_, err = s.Like(ctx, p.ID)
	require.NoError(t, err)

	stale.Title = "Road Bike"
	updated, err := s.Update(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, "Road Bike", updated.Title)
	assert.Equal(t, 1, updated.ViewCount)
	assert.Equal(t, 1, updated.LikeCount)

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)
	assert.Equal(t, 1, got.LikeCount)
}

func TestCatalogService_GetCategories_SkipsUncategorized(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestService(t)

	mustCreate(t, s, models.Product{Title: "a", Category: "books", Quantity: 1})
	mustCreate(t, s, models.Product{Title: "b", Quantity: 1})

	cats, err := s.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"books"}, cats)
}
