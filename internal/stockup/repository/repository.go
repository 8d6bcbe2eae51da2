// Package repository provides typed access to the five StockUp collections.
// Every operation is a full-collection read-modify-write over the key-value
// store; a per-collection mutex serializes those cycles so two rapid
// mutations cannot lose each other's update.
//
// Read failures (missing blob, corrupt JSON) degrade to the empty collection
// instead of propagating. That keeps the original storage contract; the
// failure is logged so corruption is at least observable.
package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clubstock/clubstock/internal/stockup/model"
	"github.com/clubstock/clubstock/internal/stockup/store"
)

// Collection keys in the underlying store.
const (
	KeyUser       = "user"
	KeyCategories = "categories"
	KeyProducts   = "products"
	KeySales      = "sales"
	KeySettings   = "settings"
)

// AllKeys lists every collection key, in export order.
func AllKeys() []string {
	return []string{KeyUser, KeyCategories, KeyProducts, KeySales, KeySettings}
}

// collection implements the shared read-modify-write cycle for one
// list-valued key.
type collection[E any] struct {
	st     store.Store
	key    string
	idOf   func(E) string
	logger *zap.Logger
	mu     sync.Mutex
}

// load reads and decodes the collection, degrading to empty on any failure.
func (c *collection[E]) load(ctx context.Context) []E {
	data, ok, err := c.st.Get(ctx, c.key)
	if err != nil {
		c.logger.Warn("read collection failed, using empty", zap.String("key", c.key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var items []E
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("corrupt collection blob, using empty", zap.String("key", c.key), zap.Error(err))
		return nil
	}
	return items
}

func (c *collection[E]) save(ctx context.Context, items []E) error {
	if items == nil {
		items = []E{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.st.Set(ctx, c.key, data)
}

// GetAll returns the whole collection.
func (c *collection[E]) GetAll(ctx context.Context) []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// GetByID returns the first item with the given id.
func (c *collection[E]) GetByID(ctx context.Context, id string) (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.load(ctx) {
		if c.idOf(item) == id {
			return item, true
		}
	}
	var zero E
	return zero, false
}

// Add appends an item. The caller supplies a fresh id; no uniqueness check
// is performed.
func (c *collection[E]) Add(ctx context.Context, item E) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := append(c.load(ctx), item)
	return c.save(ctx, items)
}

// update applies fn to the item with the given id. Returns applied=false
// when no item matches.
func (c *collection[E]) update(ctx context.Context, id string, fn func(*E)) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.load(ctx)
	for i := range items {
		if c.idOf(items[i]) == id {
			fn(&items[i])
			return true, c.save(ctx, items)
		}
	}
	return false, nil
}

// Delete removes the item with the given id. Returns applied=false when no
// item matches.
func (c *collection[E]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.load(ctx)
	kept := items[:0]
	for _, item := range items {
		if c.idOf(item) != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	return true, c.save(ctx, kept)
}

// CategoryRepo manages the categories collection.
type CategoryRepo struct {
	collection[model.Category]
}

// Update applies a partial update. Returns applied=false when the id is
// unknown.
func (r *CategoryRepo) Update(ctx context.Context, id string, patch model.CategoryPatch) (bool, error) {
	return r.update(ctx, id, func(c *model.Category) {
		patch.Apply(c)
	})
}

// ProductRepo manages the products collection.
type ProductRepo struct {
	collection[model.Product]
	now func() time.Time
}

// Update applies a partial update and stamps UpdatedAt.
func (r *ProductRepo) Update(ctx context.Context, id string, patch model.ProductPatch) (bool, error) {
	return r.update(ctx, id, func(p *model.Product) {
		patch.Apply(p)
		p.UpdatedAt = r.now().UnixMilli()
	})
}

// SaleRepo manages the sales collection. Sales are append-and-delete only.
type SaleRepo struct {
	collection[model.Sale]
}

// UserRepo manages the singleton user blob.
type UserRepo struct {
	st     store.Store
	logger *zap.Logger
	mu     sync.Mutex
}

// Get returns the user, or nil when onboarding has not happened (or the
// blob is unreadable).
func (r *UserRepo) Get(ctx context.Context) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *UserRepo) load(ctx context.Context) *model.User {
	data, ok, err := r.st.Get(ctx, KeyUser)
	if err != nil {
		r.logger.Warn("read user failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var u model.User
	if err := json.Unmarshal(data, &u); err != nil {
		r.logger.Warn("corrupt user blob", zap.Error(err))
		return nil
	}
	return &u
}

// Save stores the user, replacing any existing one.
func (r *UserRepo) Save(ctx context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return r.st.Set(ctx, KeyUser, data)
}

// Update patches the user. Returns the updated user, or applied=false when
// no user exists yet.
func (r *UserRepo) Update(ctx context.Context, patch model.UserPatch) (*model.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.load(ctx)
	if u == nil {
		return nil, false, nil
	}
	patch.Apply(u)
	data, err := json.Marshal(*u)
	if err != nil {
		return nil, false, err
	}
	if err := r.st.Set(ctx, KeyUser, data); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// SettingsRepo manages the singleton settings blob.
type SettingsRepo struct {
	st     store.Store
	logger *zap.Logger
	mu     sync.Mutex
}

// Get returns the stored settings merged over the defaults. Fields absent
// from the blob keep their default values.
func (r *SettingsRepo) Get(ctx context.Context) model.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *SettingsRepo) load(ctx context.Context) model.Settings {
	settings := model.DefaultSettings()
	data, ok, err := r.st.Get(ctx, KeySettings)
	if err != nil {
		r.logger.Warn("read settings failed, using defaults", zap.Error(err))
		return settings
	}
	if !ok {
		return settings
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		r.logger.Warn("corrupt settings blob, using defaults", zap.Error(err))
		return model.DefaultSettings()
	}
	return settings
}

// Save stores the settings.
func (r *SettingsRepo) Save(ctx context.Context, s model.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.st.Set(ctx, KeySettings, data)
}

// Update patches the settings and returns the result.
func (r *SettingsRepo) Update(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings := r.load(ctx)
	patch.Apply(&settings)
	data, err := json.Marshal(settings)
	if err != nil {
		return settings, err
	}
	return settings, r.st.Set(ctx, KeySettings, data)
}

// Repositories bundles the five collection repositories over one store.
type Repositories struct {
	Users      *UserRepo
	Categories *CategoryRepo
	Products   *ProductRepo
	Sales      *SaleRepo
	Settings   *SettingsRepo

	st store.Store
}

// New builds repositories over the given store.
func New(st store.Store, logger *zap.Logger) *Repositories {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repositories{
		Users:    &UserRepo{st: st, logger: logger},
		Settings: &SettingsRepo{st: st, logger: logger},
		Categories: &CategoryRepo{collection: collection[model.Category]{
			st: st, key: KeyCategories, logger: logger,
			idOf: func(c model.Category) string { return c.ID },
		}},
		Products: &ProductRepo{
			collection: collection[model.Product]{
				st: st, key: KeyProducts, logger: logger,
				idOf: func(p model.Product) string { return p.ID },
			},
			now: time.Now,
		},
		Sales: &SaleRepo{collection: collection[model.Sale]{
			st: st, key: KeySales, logger: logger,
			idOf: func(s model.Sale) string { return s.ID },
		}},
		st: st,
	}
}

// Reset wipes all five collections in one call.
func (r *Repositories) Reset(ctx context.Context) error {
	return r.st.Remove(ctx, AllKeys()...)
}
