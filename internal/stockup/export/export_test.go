package export

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clubstock/clubstock/internal/stockup/model"
	"github.com/clubstock/clubstock/internal/stockup/repository"
	"github.com/clubstock/clubstock/internal/stockup/store"
)

func seededRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	ctx := context.Background()
	repos := repository.New(store.NewMemoryStore(), zap.NewNop())

	require.NoError(t, repos.Users.Save(ctx, model.User{ID: "u1", FirstName: "Ana", LastName: "Duval", CreatedAt: 1}))
	require.NoError(t, repos.Categories.Add(ctx, model.Category{ID: "c1", Name: "Apparel", Color: "#ff0000", CreatedAt: 2}))
	require.NoError(t, repos.Products.Add(ctx, model.Product{
		ID: "p1", Name: "Jersey", CategoryID: "c1",
		Variants: []model.ProductVariant{{ID: "v1", Name: "M", Price: 25, Stock: 4}},
	}))
	require.NoError(t, repos.Sales.Add(ctx, model.Sale{
		ID: "s1", ProductID: "p1", ProductName: "Jersey",
		VariantID: "v1", VariantName: "M", Quantity: 1, Price: 25, TotalAmount: 25, Timestamp: 3,
	}))
	return repos
}

func TestExportDocument(t *testing.T) {
	ctx := context.Background()
	repos := seededRepos(t)
	now := time.UnixMilli(1_700_000_000_000)

	data, err := Export(ctx, repos, now)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))

	require.NotNil(t, doc.User)
	assert.Equal(t, "Ana", doc.User.FirstName)
	assert.Len(t, doc.Categories, 1)
	assert.Len(t, doc.Products, 1)
	assert.Len(t, doc.Sales, 1)
	assert.Equal(t, model.DefaultSettings(), doc.Settings, "unset settings export as defaults")
	assert.EqualValues(t, 1_700_000_000_000, doc.ExportedAt)
}

func TestExportEmptyState(t *testing.T) {
	ctx := context.Background()
	repos := repository.New(store.NewMemoryStore(), zap.NewNop())

	doc := Snapshot(ctx, repos, time.UnixMilli(42))

	assert.Nil(t, doc.User)
	assert.Empty(t, doc.Categories)
	assert.Empty(t, doc.Products)
	assert.Empty(t, doc.Sales)
}

func TestResetWipesEverything(t *testing.T) {
	ctx := context.Background()
	repos := seededRepos(t)

	require.NoError(t, Reset(ctx, repos))

	doc := Snapshot(ctx, repos, time.UnixMilli(42))
	assert.Nil(t, doc.User)
	assert.Empty(t, doc.Products)
	assert.Empty(t, doc.Sales)
	assert.Equal(t, model.DefaultSettings(), doc.Settings)
}
