// Package model defines the entities of the offline StockUp inventory.
// Timestamps are epoch milliseconds so persisted data stays compatible with
// the export document format.
package model

// User is the device owner. Singleton per install, created at onboarding.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PhotoURI  string `json:"photoUri,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// Category is an independent collection referenced by products. Deleting a
// category does not cascade onto products.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt int64  `json:"createdAt"`
}

// ProductVariant is a priced, stocked sub-unit of a product. Stock may be
// negative to represent preorders when negative stock is permitted.
// AllowNegativeStock overrides the global setting when non-nil.
type ProductVariant struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Price              float64 `json:"price"`
	Stock              int     `json:"stock"`
	AllowNegativeStock *bool   `json:"allowNegativeStock,omitempty"`
}

// Product owns its variants by value. CategoryID is empty for "no category".
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Images      []string         `json:"images"`
	CategoryID  string           `json:"categoryId,omitempty"`
	Variants    []ProductVariant `json:"variants"`
	CreatedAt   int64            `json:"createdAt"`
	UpdatedAt   int64            `json:"updatedAt"`
}

// Sale is immutable once created, except for deletion. Product and variant
// names are denormalized so display stays stable after renames or deletes.
type Sale struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	VariantID   string  `json:"variantId"`
	VariantName string  `json:"variantName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	TotalAmount float64 `json:"totalAmount"`
	Timestamp   int64   `json:"timestamp"`
}

// Settings is the singleton application configuration.
type Settings struct {
	LowStockThreshold        int    `json:"lowStockThreshold"`
	AllowNegativeStockGlobal bool   `json:"allowNegativeStockGlobal"`
	Theme                    string `json:"theme"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		LowStockThreshold:        10,
		AllowNegativeStockGlobal: false,
		Theme:                    "light",
	}
}
