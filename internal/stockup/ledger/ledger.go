// Package ledger mutates stock as a side effect of the sale lifecycle and
// derives stock status.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clubstock/clubstock/internal/stockup/model"
	"github.com/clubstock/clubstock/internal/stockup/repository"
)

var (
	// ErrProductNotFound is returned when the sale references an unknown product.
	ErrProductNotFound = errors.New("product not found")
	// ErrVariantNotFound is returned when the sale references an unknown variant.
	ErrVariantNotFound = errors.New("variant not found")
	// ErrSaleNotFound is returned when deleting an unknown sale.
	ErrSaleNotFound = errors.New("sale not found")
	// ErrInvalidQuantity is returned for a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidPrice is returned for a non-positive unit price.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrInsufficientStock is returned when the sale exceeds available stock
	// and negative stock is not permitted for the variant.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConfirmPreorder is returned when the sale would drive stock negative
	// and the caller has not confirmed the preorder yet. Retry with
	// RecordSaleInput.Confirm set.
	ErrConfirmPreorder = errors.New("sale would drive stock negative, confirmation required")
)

// RecordSaleInput describes a sale to record. Confirm acknowledges the
// preorder warning when the sale drives stock negative.
type RecordSaleInput struct {
	ProductID string
	VariantID string
	Quantity  int
	Price     float64
	Confirm   bool
}

// Ledger applies stock deltas for sale creation and deletion. A single
// mutex covers the whole read-validate-write cycle, so the two collection
// writes of one sale can never interleave with another sale's.
type Ledger struct {
	products *repository.ProductRepo
	sales    *repository.SaleRepo
	settings *repository.SettingsRepo
	logger   *zap.Logger

	mu  sync.Mutex
	now func() time.Time
}

// New builds a Ledger over the given repositories.
func New(repos *repository.Repositories, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		products: repos.Products,
		sales:    repos.Sales,
		settings: repos.Settings,
		logger:   logger,
		now:      time.Now,
	}
}

// negativeAllowed resolves the preorder permission for a variant: the
// variant's own flag wins when set, otherwise the global setting applies.
func negativeAllowed(v model.ProductVariant, settings model.Settings) bool {
	if v.AllowNegativeStock != nil {
		return *v.AllowNegativeStock
	}
	return settings.AllowNegativeStockGlobal
}

// RecordSale validates the input, decrements the variant's stock and
// appends the sale. If appending the sale fails after the stock write
// succeeded, the stock delta is rolled back before returning.
func (l *Ledger) RecordSale(ctx context.Context, in RecordSaleInput) (model.Sale, error) {
	if in.Quantity <= 0 {
		return model.Sale{}, ErrInvalidQuantity
	}
	if in.Price <= 0 {
		return model.Sale{}, ErrInvalidPrice
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	product, ok := l.products.GetByID(ctx, in.ProductID)
	if !ok {
		return model.Sale{}, ErrProductNotFound
	}

	var variant *model.ProductVariant
	for i := range product.Variants {
		if product.Variants[i].ID == in.VariantID {
			variant = &product.Variants[i]
			break
		}
	}
	if variant == nil {
		return model.Sale{}, ErrVariantNotFound
	}

	settings := l.settings.Get(ctx)
	allowNegative := negativeAllowed(*variant, settings)

	if in.Quantity > variant.Stock {
		if !allowNegative {
			return model.Sale{}, ErrInsufficientStock
		}
		if !in.Confirm {
			return model.Sale{}, ErrConfirmPreorder
		}
	}

	sale := model.Sale{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		ProductName: product.Name,
		VariantID:   variant.ID,
		VariantName: variant.Name,
		Quantity:    in.Quantity,
		Price:       in.Price,
		TotalAmount: in.Price * float64(in.Quantity),
		Timestamp:   l.now().UnixMilli(),
	}

	if err := l.adjustStock(ctx, product.ID, variant.ID, -in.Quantity); err != nil {
		return model.Sale{}, fmt.Errorf("apply stock delta: %w", err)
	}

	if err := l.sales.Add(ctx, sale); err != nil {
		// Compensate the stock write so the two collections stay consistent.
		if rbErr := l.adjustStock(ctx, product.ID, variant.ID, in.Quantity); rbErr != nil {
			l.logger.Error("stock rollback failed after sale append error",
				zap.String("product_id", product.ID),
				zap.String("variant_id", variant.ID),
				zap.Error(rbErr))
		}
		return model.Sale{}, fmt.Errorf("append sale: %w", err)
	}

	return sale, nil
}

// DeleteSale restores the variant's stock and removes the sale. When the
// product or variant no longer exists, only the sale is removed.
func (l *Ledger) DeleteSale(ctx context.Context, saleID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	sale, ok := l.sales.GetByID(ctx, saleID)
	if !ok {
		return ErrSaleNotFound
	}

	restored := false
	if _, ok := l.products.GetByID(ctx, sale.ProductID); ok {
		if err := l.adjustStock(ctx, sale.ProductID, sale.VariantID, sale.Quantity); err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
		restored = true
	}

	applied, err := l.sales.Delete(ctx, saleID)
	if err != nil {
		if restored {
			if rbErr := l.adjustStock(ctx, sale.ProductID, sale.VariantID, -sale.Quantity); rbErr != nil {
				l.logger.Error("stock rollback failed after sale delete error",
					zap.String("sale_id", saleID),
					zap.Error(rbErr))
			}
		}
		return fmt.Errorf("remove sale: %w", err)
	}
	if !applied {
		return ErrSaleNotFound
	}
	return nil
}

// adjustStock adds delta to the matching variant's stock. Missing variants
// are a silent no-op, matching the repository's permissive update contract.
func (l *Ledger) adjustStock(ctx context.Context, productID, variantID string, delta int) error {
	_, err := l.updateVariant(ctx, productID, variantID, func(v *model.ProductVariant) {
		v.Stock += delta
	})
	return err
}

func (l *Ledger) updateVariant(ctx context.Context, productID, variantID string, fn func(*model.ProductVariant)) (bool, error) {
	product, ok := l.products.GetByID(ctx, productID)
	if !ok {
		return false, nil
	}
	variants := make([]model.ProductVariant, len(product.Variants))
	copy(variants, product.Variants)
	found := false
	for i := range variants {
		if variants[i].ID == variantID {
			fn(&variants[i])
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	return l.products.Update(ctx, productID, model.ProductPatch{Variants: &variants})
}
