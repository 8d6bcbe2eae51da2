package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Club represents a tenant: one club owns its categories and articles
type Club struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name       string     `gorm:"not null" json:"name"`
	InviteCode string     `gorm:"uniqueIndex;not null" json:"inviteCode"`
	Categories []Category `gorm:"foreignKey:ClubID" json:"categories,omitempty"`
	Articles   []Article  `gorm:"foreignKey:ClubID" json:"articles,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for Club model
func (Club) TableName() string {
	return "clubs"
}

func (c *Club) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
