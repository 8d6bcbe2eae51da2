package ledger

import (
	"fmt"

	"github.com/clubstock/clubstock/internal/stockup/model"
)

// Status classifies a stock level against the low-stock threshold.
type Status string

const (
	StatusOK  Status = "ok"
	StatusLow Status = "low"
	StatusOut Status = "out"
)

// StockStatus derives the status of a stock level. The boundary is
/// inclusive: stock == threshold is "low". Negative stock classifies as
// "low" here; callers that treat negative stock as preorder demand must
// skip negative variants before calling (see VariantMatchesStatus).
func StockStatus(stock, threshold int) Status {
	if stock == 0 {
		return StatusOut
	}
	if stock <= threshold {
		return StatusLow
	}
	return StatusOK
}

// StockInfo summarizes a product's stock across variants.
type StockInfo struct {
	// Available sums only non-negative variant stocks.
	Available int
	// HasNegative reports whether any variant is in preorder (negative).
	HasNegative bool
	// Display is a human-readable summary, e.g. "5 (+2 preorder)".
	Display string
}

// ProductStockInfo aggregates variant stocks. Negative stock never reduces
// availability; it is surfaced separately as preorder demand.
func ProductStockInfo(variants []model.ProductVariant) StockInfo {
	info := StockInfo{}
	preorder := 0
	for _, v := range variants {
		if v.Stock > 0 {
			info.Available += v.Stock
		} else if v.Stock < 0 {
			info.HasNegative = true
			preorder += -v.Stock
		}
	}
	if info.HasNegative {
		info.Display = fmt.Sprintf("%d (+%d preorder)", info.Available, preorder)
	} else {
		info.Display = fmt.Sprintf("%d", info.Available)
	}
	return info
}

// ProductStatus derives the aggregate status of a product from its
// available (non-negative) stock.
func ProductStatus(p model.Product, threshold int) Status {
	return StockStatus(ProductStockInfo(p.Variants).Available, threshold)
}

// DisplayStatus is the severity badge for a product card: "out" when the
// aggregate is out, "low" when the aggregate is low or any non-negative
// variant is low or out, "ok" otherwise.
func DisplayStatus(p model.Product, threshold int) Status {
	agg := ProductStatus(p, threshold)
	if agg == StatusOut {
		return StatusOut
	}
	for _, v := range p.Variants {
		if VariantMatchesStatus(v, StatusLow, threshold) || VariantMatchesStatus(v, StatusOut, threshold) {
			return StatusLow
		}
	}
	return agg
}

// VariantMatchesStatus reports whether a single variant classifies as the
// given status. Negative-stock variants never match: they represent active
// preorder demand, not scarcity.
func VariantMatchesStatus(v model.ProductVariant, status Status, threshold int) bool {
	if v.Stock < 0 {
		return false
	}
	return StockStatus(v.Stock, threshold) == status
}

// ProductMatchesStatus applies the OR-across-levels rule: a product matches
// when its aggregate status equals the requested one, or when at least one
// non-negative variant does.
func ProductMatchesStatus(p model.Product, status Status, threshold int) bool {
	if ProductStatus(p, threshold) == status {
		return true
	}
	for _, v := range p.Variants {
		if VariantMatchesStatus(v, status, threshold) {
			return true
		}
	}
	return false
}

// LowStockCount counts products whose aggregate status or any non-negative
// variant is low or out.
func LowStockCount(products []model.Product, threshold int) int {
	count := 0
	for _, p := range products {
		if ProductMatchesStatus(p, StatusLow, threshold) || ProductMatchesStatus(p, StatusOut, threshold) {
			count++
		}
	}
	return count
}
