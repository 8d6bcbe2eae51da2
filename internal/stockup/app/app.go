// Package app is the facade the CLI and any embedding UI talk to. It owns
// input validation, a read cache over the repositories, and delegates stock
// movements to the ledger and analytics to the stats package.
package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clubstock/clubstock/internal/stockup/export"
	"github.com/clubstock/clubstock/internal/stockup/filter"
	"github.com/clubstock/clubstock/internal/stockup/ledger"
	"github.com/clubstock/clubstock/internal/stockup/model"
	"github.com/clubstock/clubstock/internal/stockup/repository"
	"github.com/clubstock/clubstock/internal/stockup/stats"
	"github.com/clubstock/clubstock/internal/stockup/store"
)

var (
	ErrNameRequired     = errors.New("name is required")
	ErrVariantsRequired = errors.New("at least one variant is required")
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrUserExists       = errors.New("user already onboarded")
	ErrNoUser           = errors.New("no user onboarded")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
)

// App wires the StockUp packages together behind one surface.
type App struct {
	repos  *repository.Repositories
	ledger *ledger.Ledger
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]any

	now func() time.Time
}

// New builds an App over the given store.
func New(st store.Store, logger *zap.Logger) *App {
	repos := repository.New(st, logger)
	return &App{
		repos:  repos,
		ledger: ledger.New(repos, logger),
		logger: logger,
		cache:  make(map[string]any),
		now:    time.Now,
	}
}

// Repositories exposes the underlying repositories for callers that need raw
// access, such as the export document builder.
func (a *App) Repositories() *repository.Repositories { return a.repos }

// cached returns the memoized list for key, loading it once on miss. The
// cache is invalidated synchronously by every mutation, so reads after a
// write always observe the write.
func cached[E any](a *App, key string, load func() []E) []E {
	a.mu.Lock()
	defer a.mu.Unlock()
	if v, ok := a.cache[key]; ok {
		return v.([]E)
	}
	list := load()
	a.cache[key] = list
	return list
}

func (a *App) invalidate(keys ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, k := range keys {
		delete(a.cache, k)
	}
}

// --- user ---

// Onboard creates the device user. Only one user exists per install.
func (a *App) Onboard(ctx context.Context, firstName, lastName string) (model.User, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return model.User{}, ErrNameRequired
	}
	if a.repos.Users.Get(ctx) != nil {
		return model.User{}, ErrUserExists
	}
	u := model.User{
		ID:        uuid.New().String(),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		CreatedAt: a.now().UnixMilli(),
	}
	if err := a.repos.Users.Save(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// User returns the onboarded user, or ErrNoUser.
func (a *App) User(ctx context.Context) (model.User, error) {
	u := a.repos.Users.Get(ctx)
	if u == nil {
		return model.User{}, ErrNoUser
	}
	return *u, nil
}

// UpdateUser applies a partial update to the user profile.
func (a *App) UpdateUser(ctx context.Context, patch model.UserPatch) (model.User, error) {
	u, applied, err := a.repos.Users.Update(ctx, patch)
	if err != nil {
		return model.User{}, err
	}
	if !applied {
		return model.User{}, ErrNoUser
	}
	return *u, nil
}

// --- categories ---

func (a *App) Categories(ctx context.Context) []model.Category {
	return cached(a, repository.KeyCategories, func() []model.Category {
		return a.repos.Categories.GetAll(ctx)
	})
}

func (a *App) CreateCategory(ctx context.Context, name, color string) (model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return model.Category{}, ErrNameRequired
	}
	c := model.Category{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Color:     color,
		CreatedAt: a.now().UnixMilli(),
	}
	if err := a.repos.Categories.Add(ctx, c); err != nil {
		return model.Category{}, err
	}
	a.invalidate(repository.KeyCategories)
	return c, nil
}

func (a *App) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrNameRequired
	}
	applied, err := a.repos.Categories.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	if !applied {
		return ErrCategoryNotFound
	}
	a.invalidate(repository.KeyCategories)
	return nil
}

// DeleteCategory removes the category only. Products keep their dangling
// categoryId and render as uncategorized.
func (a *App) DeleteCategory(ctx context.Context, id string) error {
	applied, err := a.repos.Categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !applied {
		return ErrCategoryNotFound
	}
	a.invalidate(repository.KeyCategories)
	return nil
}

// --- products ---

// ProductInput carries the caller-supplied fields of a new product. Variant
// IDs are assigned here when absent.
type ProductInput struct {
	Name        string
	Description string
	Images      []string
	CategoryID  string
	Variants    []model.ProductVariant
}

func validateVariants(variants []model.ProductVariant) error {
	if len(variants) == 0 {
		return ErrVariantsRequired
	}
	for _, v := range variants {
		if v.Price < 0 {
			return ErrNegativePrice
		}
	}
	return nil
}

func (a *App) Products(ctx context.Context) []model.Product {
	return cached(a, repository.KeyProducts, func() []model.Product {
		return a.repos.Products.GetAll(ctx)
	})
}

func (a *App) CreateProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, ErrNameRequired
	}
	if err := validateVariants(in.Variants); err != nil {
		return model.Product{}, err
	}

	nowMillis := a.now().UnixMilli()
	variants := make([]model.ProductVariant, len(in.Variants))
	copy(variants, in.Variants)
	for i := range variants {
		if variants[i].ID == "" {
			variants[i].ID = uuid.New().String()
		}
	}

	p := model.Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Images:      in.Images,
		CategoryID:  in.CategoryID,
		Variants:    variants,
		CreatedAt:   nowMillis,
		UpdatedAt:   nowMillis,
	}
	if err := a.repos.Products.Add(ctx, p); err != nil {
		return model.Product{}, err
	}
	a.invalidate(repository.KeyProducts)
	return p, nil
}

func (a *App) UpdateProduct(ctx context.Context, id string, patch model.ProductPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrNameRequired
	}
	if patch.Variants != nil {
		if err := validateVariants(*patch.Variants); err != nil {
			return err
		}
	}
	applied, err := a.repos.Products.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	if !applied {
		return ErrProductNotFound
	}
	a.invalidate(repository.KeyProducts)
	return nil
}

// DeleteProduct removes the product. Past sales keep their denormalized
// names and survive the delete.
func (a *App) DeleteProduct(ctx context.Context, id string) error {
	applied, err := a.repos.Products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !applied {
		return ErrProductNotFound
	}
	a.invalidate(repository.KeyProducts)
	return nil
}

// FilterProducts runs the catalog query pipeline and sorts the result.
func (a *App) FilterProducts(ctx context.Context, query, categoryID string, status ledger.Status, order string) []model.Product {
	settings := a.Settings(ctx)
	got := filter.Products(a.Products(ctx), query, categoryID, status, settings.LowStockThreshold)
	return filter.SortProducts(got, order)
}

// --- sales ---

func (a *App) Sales(ctx context.Context) []model.Sale {
	return cached(a, repository.KeySales, func() []model.Sale {
		return a.repos.Sales.GetAll(ctx)
	})
}

func (a *App) RecordSale(ctx context.Context, in ledger.RecordSaleInput) (model.Sale, error) {
	sale, err := a.ledger.RecordSale(ctx, in)
	if err != nil {
		return model.Sale{}, err
	}
	a.invalidate(repository.KeyProducts, repository.KeySales)
	return sale, nil
}

func (a *App) DeleteSale(ctx context.Context, saleID string) error {
	if err := a.ledger.DeleteSale(ctx, saleID); err != nil {
		return err
	}
	a.invalidate(repository.KeyProducts, repository.KeySales)
	return nil
}

// FilterSales searches and sorts the sale history.
func (a *App) FilterSales(ctx context.Context, query, order string) []model.Sale {
	return filter.SortSales(filter.Sales(a.Sales(ctx), query), order)
}

// --- settings ---

func (a *App) Settings(ctx context.Context) model.Settings {
	return a.repos.Settings.Get(ctx)
}

func (a *App) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	s, err := a.repos.Settings.Update(ctx, patch)
	if err != nil {
		return model.Settings{}, err
	}
	return s, nil
}

// --- analytics ---

// SalesStats summarizes the rolling period ending now.
func (a *App) SalesStats(ctx context.Context, period stats.Period) stats.SalesStats {
	return stats.Calculate(a.Sales(ctx), a.Products(ctx), a.Categories(ctx), period, a.now())
}

// InventoryMetrics reports dormant capital and turnover against the given
// period's revenue.
func (a *App) InventoryMetrics(ctx context.Context, period stats.Period) stats.InventoryMetrics {
	revenue := a.SalesStats(ctx, period).TotalRevenue
	return stats.Inventory(a.Products(ctx), revenue)
}

// LowStockCount counts products needing attention under the configured
// threshold.
func (a *App) LowStockCount(ctx context.Context) int {
	return ledger.LowStockCount(a.Products(ctx), a.Settings(ctx).LowStockThreshold)
}

// --- export / reset ---

// ExportJSON renders the full-state document.
func (a *App) ExportJSON(ctx context.Context) ([]byte, error) {
	return export.Export(ctx, a.repos, a.now())
}

// ResetAll wipes every collection and the cache.
func (a *App) ResetAll(ctx context.Context) error {
	if err := export.Reset(ctx, a.repos); err != nil {
		return err
	}
	a.invalidate(repository.AllKeys()...)
	return nil
}
