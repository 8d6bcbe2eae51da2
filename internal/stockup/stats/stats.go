// Package stats computes sales and inventory analytics over in-memory
// snapshots of the ledger collections. All functions are pure: the reference
// time is passed in explicitly so callers (and tests) control the window.
package stats

import (
	"sort"
	"time"

	"github.com/clubstock/clubstock/internal/stockup/ledger"
	"github.com/clubstock/clubstock/internal/stockup/model"
)

// Period selects the rolling comparison window.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func (p Period) days() int {
	if p == PeriodMonth {
		return 30
	}
	return 7
}

// Window is a half-open pair of epoch-millisecond bounds, inclusive on both
// ends when testing membership.
type Window struct {
	From int64
	To   int64
}

func (w Window) contains(ts int64) bool {
	return ts >= w.From && ts <= w.To
}

// PeriodWindow returns the current rolling window ending at now, and the
// window of equal length immediately before it.
func PeriodWindow(period Period, now time.Time) (current, previous Window) {
	d := time.Duration(period.days()) * 24 * time.Hour
	end := now.UnixMilli()
	start := now.Add(-d).UnixMilli()
	current = Window{From: start, To: end}
	previous = Window{From: now.Add(-2 * d).UnixMilli(), To: start}
	return current, previous
}

// PercentageChange reports the relative change from prev to cur. A zero
// baseline yields 100 when there is anything current and 0 otherwise, so
// fresh ledgers never divide by zero.
func PercentageChange(cur, prev float64) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return (cur - prev) / prev * 100
}

// ProductTotal is one row of a top-products ranking.
type ProductTotal struct {
	ProductID   string  `json:"productId"`
	VariantID   string  `json:"variantId"`
	ProductName string  `json:"productName"`
	VariantName string  `json:"variantName"`
	Units       int     `json:"units"`
	Revenue     float64 `json:"revenue"`
}

// CategoryRevenue is one row of the revenue-by-category breakdown.
type CategoryRevenue struct {
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Revenue      float64 `json:"revenue"`
}

// SalesStats summarizes sales over a rolling period against the one before.
type SalesStats struct {
	Period            Period            `json:"period"`
	TotalUnits        int               `json:"totalUnits"`
	TotalRevenue      float64           `json:"totalRevenue"`
	UnitsChange       float64           `json:"unitsChange"`
	RevenueChange     float64           `json:"revenueChange"`
	AverageSale       float64           `json:"averageSale"`
	TopProducts       []ProductTotal    `json:"topProducts"`
	TopByRevenue      []ProductTotal    `json:"topByRevenue"`
	RevenueByCategory []CategoryRevenue `json:"revenueByCategory"`
}

const topN = 5

// Calculate builds the sales summary for the given period ending at now.
func Calculate(sales []model.Sale, products []model.Product, categories []model.Category, period Period, now time.Time) SalesStats {
	current, previous := PeriodWindow(period, now)

	var curSales []model.Sale
	var prevUnits int
	var prevRevenue float64
	for _, s := range sales {
		switch {
		case current.contains(s.Timestamp):
			curSales = append(curSales, s)
		case previous.contains(s.Timestamp):
			prevUnits += s.Quantity
			prevRevenue += s.TotalAmount
		}
	}

	var units int
	var revenue float64
	for _, s := range curSales {
		units += s.Quantity
		revenue += s.TotalAmount
	}

	avg := 0.0
	if len(curSales) > 0 {
		avg = revenue / float64(len(curSales))
	}

	return SalesStats{
		Period:            period,
		TotalUnits:        units,
		TotalRevenue:      revenue,
		UnitsChange:       PercentageChange(float64(units), float64(prevUnits)),
		RevenueChange:     PercentageChange(revenue, prevRevenue),
		AverageSale:       avg,
		TopProducts:       topProducts(curSales, byUnits),
		TopByRevenue:      topProducts(curSales, byRevenue),
		RevenueByCategory: revenueByCategory(curSales, products, categories),
	}
}

type ranking int

const (
	byUnits ranking = iota
	byRevenue
)

// topProducts groups sales by (productId, variantId) and returns the top
// five rows. Ties keep first-seen order.
func topProducts(sales []model.Sale, rank ranking) []ProductTotal {
	type key struct{ productID, variantID string }
	totals := make(map[key]*ProductTotal)
	var order []key
	for _, s := range sales {
		k := key{s.ProductID, s.VariantID}
		row, ok := totals[k]
		if !ok {
			row = &ProductTotal{
				ProductID:   s.ProductID,
				VariantID:   s.VariantID,
				ProductName: s.ProductName,
				VariantName: s.VariantName,
			}
			totals[k] = row
			order = append(order, k)
		}
		row.Units += s.Quantity
		row.Revenue += s.TotalAmount
	}

	rows := make([]ProductTotal, 0, len(order))
	for _, k := range order {
		rows = append(rows, *totals[k])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rank == byRevenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].Units > rows[j].Units
	})
	if len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}

// revenueByCategory sums revenue per category, resolving each sale's category
// through its product. Categories without revenue are omitted.
func revenueByCategory(sales []model.Sale, products []model.Product, categories []model.Category) []CategoryRevenue {
	catOf := make(map[string]string, len(products))
	for _, p := range products {
		catOf[p.ID] = p.CategoryID
	}
	nameOf := make(map[string]string, len(categories))
	for _, c := range categories {
		nameOf[c.ID] = c.Name
	}

	totals := make(map[string]float64)
	for _, s := range sales {
		catID := catOf[s.ProductID]
		if catID == "" {
			continue
		}
		totals[catID] += s.TotalAmount
	}

	rows := make([]CategoryRevenue, 0, len(totals))
	for id, rev := range totals {
		if rev == 0 {
			continue
		}
		name := nameOf[id]
		if name == "" {
			name = id
		}
		rows = append(rows, CategoryRevenue{CategoryID: id, CategoryName: name, Revenue: rev})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})
	return rows
}

// DormantProduct is one row of the dormant-value ranking.
type DormantProduct struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Units       int     `json:"units"`
	TotalValue  float64 `json:"totalValue"`
}

// InventoryMetrics summarizes the capital currently sitting in stock.
type InventoryMetrics struct {
	DormantValue    float64          `json:"dormantValue"`
	AvailableUnits  int              `json:"availableUnits"`
	ProductCount    int              `json:"productCount"`
	VariantCount    int              `json:"variantCount"`
	OutOfStockCount int              `json:"outOfStockCount"`
	TurnoverRate    float64          `json:"turnoverRate"`
	TopDormant      []DormantProduct `json:"topDormant"`
}

// Inventory computes stock-side metrics. Dormant value multiplies price by the
// raw stock figure, negatives included, so preorder debt shows up as negative
// capital. Available units clamp negatives to zero.
func Inventory(products []model.Product, periodRevenue float64) InventoryMetrics {
	m := InventoryMetrics{ProductCount: len(products)}
	var dormant []DormantProduct
	for _, p := range products {
		var value float64
		var units int
		for _, v := range p.Variants {
			m.VariantCount++
			value += v.Price * float64(v.Stock)
			if v.Stock > 0 {
				units += v.Stock
			}
		}
		m.DormantValue += value
		m.AvailableUnits += units
		if ledger.ProductStockInfo(p.Variants).Available == 0 {
			m.OutOfStockCount++
		}
		if value > 0 {
			dormant = append(dormant, DormantProduct{
				ProductID:   p.ID,
				ProductName: p.Name,
				Units:       units,
				TotalValue:  value,
			})
		}
	}

	if m.DormantValue != 0 {
		m.TurnoverRate = periodRevenue / m.DormantValue * 100
	}

	sort.SliceStable(dormant, func(i, j int) bool {
		return dormant[i].TotalValue > dormant[j].TotalValue
	})
	if len(dormant) > topN {
		dormant = dormant[:topN]
	}
	m.TopDormant = dormant
	return m
}
