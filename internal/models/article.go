package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Article is a stocked, priced item belonging to a club.
// CategoryID is nullable: "no category" is a valid state, and deleting a
// category does not cascade onto its articles.
type Article struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	ImageURL    *string        `json:"imageUrl,omitempty"`
	Images      datatypes.JSON `json:"images,omitempty"`
	Price       float64        `gorm:"not null" json:"price"`
	Stock       *int           `json:"stock,omitempty"`
	CategoryID  *string        `gorm:"index" json:"categoryId,omitempty"`
	ClubID      string         `gorm:"index;not null" json:"clubId"`
	Category    *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for Article model
func (Article) TableName() string {
	return "articles"
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
