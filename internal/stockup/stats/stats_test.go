package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubstock/clubstock/internal/stockup/model"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) int64 {
	return now.Add(-time.Duration(d) * 24 * time.Hour).UnixMilli()
}

func sale(id, productID, variantID string, qty int, total float64, ts int64) model.Sale {
	return model.Sale{
		ID:          id,
		ProductID:   productID,
		ProductName: "product " + productID,
		VariantID:   variantID,
		VariantName: "variant " + variantID,
		Quantity:    qty,
		Price:       total / float64(qty),
		TotalAmount: total,
		Timestamp:   ts,
	}
}

func TestPercentageChange(t *testing.T) {
	assert.Equal(t, 0.0, PercentageChange(0, 0))
	assert.Equal(t, 100.0, PercentageChange(5, 0))
	assert.Equal(t, -50.0, PercentageChange(10, 20))
	assert.Equal(t, 25.0, PercentageChange(125, 100))
}

func TestPeriodWindow(t *testing.T) {
	current, previous := PeriodWindow(PeriodWeek, now)

	assert.Equal(t, now.UnixMilli(), current.To)
	assert.Equal(t, daysAgo(7), current.From)
	assert.Equal(t, daysAgo(14), previous.From)
	assert.Equal(t, current.From, previous.To)

	monthCur, _ := PeriodWindow(PeriodMonth, now)
	assert.Equal(t, daysAgo(30), monthCur.From)
}

func TestCalculateTotalsAndChanges(t *testing.T) {
	sales := []model.Sale{
		sale("s1", "p1", "v1", 2, 50, daysAgo(1)),
		sale("s2", "p1", "v1", 1, 25, daysAgo(3)),
		sale("s3", "p2", "v1", 4, 40, daysAgo(6)),
		// previous window
		sale("s4", "p1", "v1", 2, 50, daysAgo(10)),
		// outside both windows
		sale("s5", "p1", "v1", 9, 900, daysAgo(20)),
	}

	st := Calculate(sales, nil, nil, PeriodWeek, now)

	assert.Equal(t, 7, st.TotalUnits)
	assert.InDelta(t, 115, st.TotalRevenue, 1e-9)
	assert.InDelta(t, 115.0/3, st.AverageSale, 1e-9)
	// previous window: 2 units, 50 revenue
	assert.InDelta(t, 250, st.UnitsChange, 1e-9)
	assert.InDelta(t, 130, st.RevenueChange, 1e-9)
}

func TestCalculateEmptyLedger(t *testing.T) {
	st := Calculate(nil, nil, nil, PeriodMonth, now)

	assert.Zero(t, st.TotalUnits)
	assert.Zero(t, st.TotalRevenue)
	assert.Zero(t, st.AverageSale)
	assert.Zero(t, st.UnitsChange)
	assert.Zero(t, st.RevenueChange)
	assert.Empty(t, st.TopProducts)
	assert.Empty(t, st.RevenueByCategory)
}

func TestTopProductsGroupsByProductAndVariant(t *testing.T) {
	sales := []model.Sale{
		sale("s1", "p1", "v1", 3, 30, daysAgo(1)),
		sale("s2", "p1", "v2", 5, 10, daysAgo(1)),
		sale("s3", "p1", "v1", 2, 20, daysAgo(2)),
		sale("s4", "p2", "v1", 4, 400, daysAgo(2)),
	}

	st := Calculate(sales, nil, nil, PeriodWeek, now)

	require.Len(t, st.TopProducts, 3)
	// (p1,v1) and (p1,v2) are separate rows; units ranking leads with 5s,
	// first-seen order breaking the tie
	assert.Equal(t, "p1", st.TopProducts[0].ProductID)
	assert.Equal(t, "v1", st.TopProducts[0].VariantID)
	assert.Equal(t, 5, st.TopProducts[0].Units)
	assert.Equal(t, "v2", st.TopProducts[1].VariantID)
	assert.Equal(t, 5, st.TopProducts[1].Units)
	assert.Equal(t, "p2", st.TopProducts[2].ProductID)

	require.Len(t, st.TopByRevenue, 3)
	assert.Equal(t, "p2", st.TopByRevenue[0].ProductID)
	assert.InDelta(t, 400, st.TopByRevenue[0].Revenue, 1e-9)
}

func TestTopProductsMergeAndRank(t *testing.T) {
	sales := []model.Sale{
		sale("s1", "p1", "v1", 3, 30, daysAgo(1)),
		sale("s2", "p1", "v1", 2, 20, daysAgo(2)),
		sale("s3", "p2", "v1", 10, 100, daysAgo(3)),
	}

	st := Calculate(sales, nil, nil, PeriodWeek, now)

	require.Len(t, st.TopProducts, 2)
	assert.Equal(t, "p2", st.TopProducts[0].ProductID)
	assert.Equal(t, 10, st.TopProducts[0].Units)
	assert.Equal(t, "p1", st.TopProducts[1].ProductID)
	assert.Equal(t, 5, st.TopProducts[1].Units, "same product+variant rows merge")
}

func TestTopProductsCapsAtFive(t *testing.T) {
	var sales []model.Sale
	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		sales = append(sales, sale("s"+id, "p"+id, "v1", i+1, float64(i+1), daysAgo(1)))
	}

	st := Calculate(sales, nil, nil, PeriodWeek, now)

	require.Len(t, st.TopProducts, 5)
	assert.Equal(t, 8, st.TopProducts[0].Units)
	assert.Equal(t, 4, st.TopProducts[4].Units)
}

func TestRevenueByCategoryOmitsZero(t *testing.T) {
	products := []model.Product{
		{ID: "p1", Name: "Jersey", CategoryID: "c1"},
		{ID: "p2", Name: "Ball", CategoryID: "c2"},
		{ID: "p3", Name: "Loose", CategoryID: ""},
	}
	categories := []model.Category{
		{ID: "c1", Name: "Apparel"},
		{ID: "c2", Name: "Equipment"},
		{ID: "c3", Name: "Tickets"},
	}
	sales := []model.Sale{
		sale("s1", "p1", "v1", 1, 30, daysAgo(1)),
		sale("s2", "p2", "v1", 1, 80, daysAgo(1)),
		sale("s3", "p3", "v1", 1, 5, daysAgo(1)),
	}

	st := Calculate(sales, products, categories, PeriodWeek, now)

	require.Len(t, st.RevenueByCategory, 2, "uncategorized and zero-revenue categories are omitted")
	assert.Equal(t, "Equipment", st.RevenueByCategory[0].CategoryName)
	assert.InDelta(t, 80, st.RevenueByCategory[0].Revenue, 1e-9)
	assert.Equal(t, "Apparel", st.RevenueByCategory[1].CategoryName)
}

func TestInventoryMetrics(t *testing.T) {
	products := []model.Product{
		{ID: "p1", Name: "Jersey", Variants: []model.ProductVariant{
			{ID: "v1", Price: 20, Stock: 10},
			{ID: "v2", Price: 25, Stock: -2},
		}},
		{ID: "p2", Name: "Ball", Variants: []model.ProductVariant{
			{ID: "v1", Price: 15, Stock: 0},
		}},
	}

	m := Inventory(products, 75)

	// 20*10 + 25*(-2) + 15*0 = 150; negatives reduce dormant capital
	assert.InDelta(t, 150, m.DormantValue, 1e-9)
	assert.Equal(t, 10, m.AvailableUnits, "negative stock clamps to zero")
	assert.Equal(t, 2, m.ProductCount)
	assert.Equal(t, 3, m.VariantCount)
	assert.Equal(t, 1, m.OutOfStockCount)
	assert.InDelta(t, 50, m.TurnoverRate, 1e-9)

	require.Len(t, m.TopDormant, 1, "only products with positive value rank")
	assert.Equal(t, "p1", m.TopDormant[0].ProductID)
	assert.InDelta(t, 150, m.TopDormant[0].TotalValue, 1e-9)
}

func TestInventoryEmpty(t *testing.T) {
	m := Inventory(nil, 0)

	assert.Zero(t, m.DormantValue)
	assert.Zero(t, m.TurnoverRate, "zero dormant value never divides")
	assert.Empty(t, m.TopDormant)
}
