// Package filter implements the catalog and history list queries: free-text
// search, category and stock-status filtering, and the sort orders the UI
// exposes. Everything operates on snapshots and never mutates its input.
package filter

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/clubstock/clubstock/internal/stockup/ledger"
	"github.com/clubstock/clubstock/internal/stockup/model"
)

// All disables a filter dimension when passed as its value.
const All = "all"

// Sort orders for product and sale lists.
const (
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
	SortStockLow  = "stock-low"
	SortStockHigh = "stock-high"
	SortNewest    = "newest"
	SortOldest    = "oldest"
)

// collator handles accented product names; club catalogs are routinely
// French. collate.Collator is not safe for concurrent use, so each sort
// builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.French, collate.IgnoreCase)
}

func matchesQuery(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Products applies query, category and stock-status filters in sequence.
// Category and status accept All as a passthrough. Status filtering follows
// the OR rule: a product matches when its aggregate stock or any single
// non-negative variant classifies as the requested status.
func Products(products []model.Product, query, categoryID string, status ledger.Status, threshold int) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if !matchesQuery(query, p.Name, p.Description) {
			continue
		}
		if categoryID != All && p.CategoryID != categoryID {
			continue
		}
		if string(status) != All && !ledger.ProductMatchesStatus(p, status, threshold) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortProducts returns a sorted copy. Unknown orders fall back to name
// ascending. Stock orders compare available units, preorders excluded.
func SortProducts(products []model.Product, order string) []model.Product {
	out := make([]model.Product, len(products))
	copy(out, products)

	switch order {
	case SortStockLow:
		sort.SliceStable(out, func(i, j int) bool {
			return available(out[i]) < available(out[j])
		})
	case SortStockHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return available(out[i]) > available(out[j])
		})
	case SortNameDesc:
		c := newCollator()
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) > 0
		})
	default:
		c := newCollator()
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	return out
}

func available(p model.Product) int {
	return ledger.ProductStockInfo(p.Variants).Available
}

// Sales filters the history by free text over the denormalized product and
// variant names.
func Sales(sales []model.Sale, query string) []model.Sale {
	out := make([]model.Sale, 0, len(sales))
	for _, s := range sales {
		if matchesQuery(query, s.ProductName, s.VariantName) {
			out = append(out, s)
		}
	}
	return out
}

// SortSales returns a copy ordered by timestamp, newest first unless Oldest
// is requested.
func SortSales(sales []model.Sale, order string) []model.Sale {
	out := make([]model.Sale, len(sales))
	copy(out, sales)
	if order == SortOldest {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Timestamp < out[j].Timestamp
		})
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}
