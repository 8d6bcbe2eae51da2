package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clubstock/clubstock/internal/stockup/model"
	"github.com/clubstock/clubstock/internal/stockup/repository"
	"github.com/clubstock/clubstock/internal/stockup/store"
)

func boolPtr(b bool) *bool { return &b }

func setup(t *testing.T) (*repository.Repositories, *Ledger) {
	t.Helper()
	repos := repository.New(store.NewMemoryStore(), zap.NewNop())
	l := New(repos, zap.NewNop())
	l.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return repos, l
}

func seedProduct(t *testing.T, repos *repository.Repositories, variants ...model.ProductVariant) {
	t.Helper()
	require.NoError(t, repos.Products.Add(context.Background(), model.Product{
		ID:       "p1",
		Name:     "Jersey",
		Variants: variants,
	}))
}

func variantStock(t *testing.T, repos *repository.Repositories, variantID string) int {
	t.Helper()
	p, ok := repos.Products.GetByID(context.Background(), "p1")
	require.True(t, ok)
	for _, v := range p.Variants {
		if v.ID == variantID {
			return v.Stock
		}
	}
	t.Fatalf("variant %s not found", variantID)
	return 0
}

func TestRecordSaleDecrementsStock(t *testing.T) {
	ctx := context.Background()
	repos, l := setup(t)
	seedProduct(t, repos, model.ProductVariant{ID: "v1", Name: "M", Price: 25, Stock: 10})

	sale, err := l.RecordSale(ctx, RecordSaleInput{ProductID: "p1", VariantID: "v1", Quantity: 3, Price: 20})
	require.NoError(t, err)

	assert.Equal(t, "Jersey", sale.ProductName)
	assert.Equal(t, "M", sale.VariantName)
	assert.Equal(t, 3, sale.Quantity)
	assert.InDelta(t, 60, sale.TotalAmount, 1e-9)
	assert.EqualValues(t, 1_700_000_000_000, sale.Timestamp)

	assert.Equal(t, 7, variantStock(t, repos, "v1"))
	assert.Len(t, repos.Sales.GetAll(ctx), 1)
}

func TestRecordThenDeleteRestoresStock(t *testing.T) {
	ctx := context.Background()
	repos, l := setup(t)
	seedProduct(t, repos, model.ProductVariant{ID: "v1", Name: "M", Price: 25, Stock: 5})

	sale, err := l.RecordSale(ctx, RecordSaleInput{ProductID: "p1", VariantID: "v1", Quantity: 4, Price: 25})
	require.NoError(t, err)
	require.Equal(t, 1, variantStock(t, repos, "v1"))

	require.NoError(t, l.DeleteSale(ctx, sale.ID))

	assert.Equal(t, 5, variantStock(t, repos, "v1"), "round trip must restore the exact stock")
	assert.Empty(t, repos.Sales.GetAll(ctx))
}

func TestRecordSaleInsufficientStockRejected(t *testing.T) {
	ctx := context.Background()
	repos, l := setup(t)
	seedProduct(t, repos, model.ProductVariant{ID: "v1", Name: "M", Price: 25, Stock: 2})

	_, err := l.RecordSale(ctx, RecordSaleInput{ProductID: "p1", VariantID: "v1", Quantity: 5, Price: 25})
	require.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 2, variantStock(t, repos, "v1"), "rejected sale must not mutate stock")
	assert.Empty(t, repos.Sales.GetAll(ctx))
}

func TestVariantFlagOverridesGlobal(t *testing.T) {
	ctx := context.Background()
	repos, l := setup(t)
	// Global off, variant explicitly on: preorder allowed, stock goes to -3
	seedProduct(t, repos, model.ProductVariant{
		ID: "v1", Name: "M", Price: 25, Stock: 2, AllowNegativeStock: boolPtr(true),
	})

	_, err := l.RecordSale(ctx, RecordSaleInput{ProductID: "p1", VariantID: "v1", Quantity: 5, Price: 25})
	require.ErrorIs(t, err, ErrConfirmPreorder, "negative result needs explicit confirmation")
	assert.Equal(t, 2, variantStock(t, repos, "v1"))

	_, err = l.RecordSale(ctx, RecordSaleInput{ProductID: "p1", VariantID: "v1", Quantity: 5, Price: 25, Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, -3, variantStock(t, repos, "v1"))
}

func TestVariantFlagDisablesGlobalAllow(t *testing.T) {
	ctx := context.Background()
	repos, l := setup(t)
	require.NoError(t, repos.Settings.Save(ctx, model.Settings{
		LowStockThreshold:        10,
		AllowNegativeStockGlobal: true,
		Theme:                    "light",
	}))
	seedProduct(t, repos, model.ProductVariant{
		ID: "v1", Name: "M", Price: 25, Stock: 1, AllowNegativeStock: boolPtr(false),
	})

	_, err := l.RecordSale(ctx, RecordSaleInput{ProductID: "p1", VariantID: "v1", Quantity: 2, Price: 25})
	require.ErrorIs(t, err, ErrInsufficientStock)
}

func TestGlobalAllowAppliesWhenVariantFlagUnset(t *testing.T) {
	ctx := context.Background()
	repos, l := setup(t)
	require.NoError(t, repos.Settings.Save(ctx, model.Settings{
		LowStockThreshold:        10,
		AllowNegativeStockGlobal: true,
		Theme:                    "light",
	}))
	seedProduct(t, repos, model.ProductVariant{ID: "v1", Name: "M", Price: 25, Stock: 1})

	_, err := l.RecordSale(ctx, RecordSaleInput{ProductID: "p1", VariantID: "v1", Quantity: 4, Price: 25, Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, -3, variantStock(t, repos, "v1"))
}

func TestRecordSaleValidation(t *testing.T) {
	ctx := context.Background()
	repos, l := setup(t)
	seedProduct(t, repos, model.ProductVariant{ID: "v1", Name: "M", Price: 25, Stock: 5})

	_, err := l.RecordSale(ctx, RecordSaleInput{ProductID: "p1", VariantID: "v1", Quantity: 0, Price: 25})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = l.RecordSale(ctx, RecordSaleInput{ProductID: "p1", VariantID: "v1", Quantity: 1, Price: 0})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = l.RecordSale(ctx, RecordSaleInput{ProductID: "ghost", VariantID: "v1", Quantity: 1, Price: 5})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = l.RecordSale(ctx, RecordSaleInput{ProductID: "p1", VariantID: "ghost", Quantity: 1, Price: 5})
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestDeleteSaleForDeletedProduct(t *testing.T) {
	ctx := context.Background()
	repos, l := setup(t)
	seedProduct(t, repos, model.ProductVariant{ID: "v1", Name: "M", Price: 25, Stock: 5})

	sale, err := l.RecordSale(ctx, RecordSaleInput{ProductID: "p1", VariantID: "v1", Quantity: 2, Price: 25})
	require.NoError(t, err)

	applied, err := repos.Products.Delete(ctx, "p1")
	require.NoError(t, err)
	require.True(t, applied)

	// The sale still deletes cleanly; there is no stock left to restore
	require.NoError(t, l.DeleteSale(ctx, sale.ID))
	assert.Empty(t, repos.Sales.GetAll(ctx))

	assert.ErrorIs(t, l.DeleteSale(ctx, sale.ID), ErrSaleNotFound)
}

func TestStockStatusBoundaries(t *testing.T) {
	threshold := 10

	assert.Equal(t, StatusOut, StockStatus(0, threshold))
	assert.Equal(t, StatusLow, StockStatus(10, threshold), "boundary is inclusive")
	assert.Equal(t, StatusOK, StockStatus(11, threshold))
	assert.Equal(t, StatusLow, StockStatus(1, threshold))
}

func TestVariantMatchesStatusSkipsNegative(t *testing.T) {
	v := model.ProductVariant{ID: "v1", Stock: -4}
	for _, status := range []Status{StatusOK, StatusLow, StatusOut} {
		assert.False(t, VariantMatchesStatus(v, status, 10), "negative stock never classifies as %s", status)
	}
}

func TestProductStockInfo(t *testing.T) {
	variants := []model.ProductVariant{
		{ID: "v1", Price: 10, Stock: 5},
		{ID: "v2", Price: 12, Stock: -2},
		{ID: "v3", Price: 8, Stock: 0},
	}

	info := ProductStockInfo(variants)
	assert.Equal(t, 5, info.Available, "available sums only non-negative stocks")
	assert.True(t, info.HasNegative)
	assert.Equal(t, "5 (+2 preorder)", info.Display)

	info = ProductStockInfo([]model.ProductVariant{{ID: "v1", Stock: 7}})
	assert.False(t, info.HasNegative)
	assert.Equal(t, "7", info.Display)
}

func TestProductMatchesStatusOrAcrossLevels(t *testing.T) {
	threshold := 10
	// Aggregate available = 30 ("ok"), but one variant sits at 2 ("low")
	p := model.Product{Variants: []model.ProductVariant{
		{ID: "v1", Stock: 28},
		{ID: "v2", Stock: 2},
	}}

	assert.True(t, ProductMatchesStatus(p, StatusLow, threshold), "a single low variant is enough")
	assert.True(t, ProductMatchesStatus(p, StatusOK, threshold), "aggregate matches ok")
	assert.False(t, ProductMatchesStatus(p, StatusOut, threshold))
}

func TestDisplayStatus(t *testing.T) {
	threshold := 10

	// healthy aggregate, one variant low: badge degrades to low
	p := model.Product{Variants: []model.ProductVariant{
		{ID: "v1", Stock: 28},
		{ID: "v2", Stock: 2},
	}}
	assert.Equal(t, StatusLow, DisplayStatus(p, threshold))

	// a sold-out variant alone does not make the product out
	p = model.Product{Variants: []model.ProductVariant{
		{ID: "v1", Stock: 50},
		{ID: "v2", Stock: 0},
	}}
	assert.Equal(t, StatusLow, DisplayStatus(p, threshold))

	p = model.Product{Variants: []model.ProductVariant{{ID: "v1", Stock: 0}}}
	assert.Equal(t, StatusOut, DisplayStatus(p, threshold))

	p = model.Product{Variants: []model.ProductVariant{{ID: "v1", Stock: 40}, {ID: "v2", Stock: 35}}}
	assert.Equal(t, StatusOK, DisplayStatus(p, threshold))
}

func TestLowStockCount(t *testing.T) {
	threshold := 10
	products := []model.Product{
		{ID: "p1", Variants: []model.ProductVariant{{ID: "v1", Stock: 50}}},
		{ID: "p2", Variants: []model.ProductVariant{{ID: "v1", Stock: 3}}},
		{ID: "p3", Variants: []model.ProductVariant{{ID: "v1", Stock: 0}}},
		{ID: "p4", Variants: []model.ProductVariant{{ID: "v1", Stock: -5}, {ID: "v2", Stock: 40}}},
	}

	assert.Equal(t, 2, LowStockCount(products, threshold))
}
