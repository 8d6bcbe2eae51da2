package model

// Patch structs carry partial updates with optional fields, applied by
// field-by-field merge. A nil field leaves the target value unchanged.

// UserPatch updates the profile. ID and CreatedAt are never patchable.
type UserPatch struct {
	FirstName *string
	LastName  *string
	PhotoURI  *string
}

// Apply merges the patch into u.
func (p UserPatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.PhotoURI != nil {
		u.PhotoURI = *p.PhotoURI
	}
}

// CategoryPatch updates a category.
type CategoryPatch struct {
	Name  *string
	Color *string
}

// Apply merges the patch into c.
func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
}

// ProductPatch updates a product. Setting CategoryID to a pointer to the
// empty string clears the category reference.
type ProductPatch struct {
	Name        *string
	Description *string
	Images      *[]string
	CategoryID  *string
	Variants    *[]ProductVariant
}

// Apply merges the patch into prod. UpdatedAt stamping is the repository's
// responsibility, not the patch's.
func (p ProductPatch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Images != nil {
		prod.Images = *p.Images
	}
	if p.CategoryID != nil {
		prod.CategoryID = *p.CategoryID
	}
	if p.Variants != nil {
		prod.Variants = *p.Variants
	}
}

// SettingsPatch updates the app settings.
type SettingsPatch struct {
	LowStockThreshold        *int
	AllowNegativeStockGlobal *bool
	Theme                    *string
}

// Apply merges the patch into s.
func (p SettingsPatch) Apply(s *Settings) {
	if p.LowStockThreshold != nil {
		s.LowStockThreshold = *p.LowStockThreshold
	}
	if p.AllowNegativeStockGlobal != nil {
		s.AllowNegativeStockGlobal = *p.AllowNegativeStockGlobal
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
}
