package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StockupBackup stores an export document uploaded by the offline app.
// The payload is kept opaque: the server never interprets it beyond JSON
// validity.
type StockupBackup struct {
	ID         string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SellerID   string         `gorm:"index;not null" json:"sellerId"`
	Payload    datatypes.JSON `gorm:"not null" json:"payload"`
	UploadedAt time.Time      `json:"uploadedAt"`
}

// TableName specifies the table name for StockupBackup model
func (StockupBackup) TableName() string {
	return "stockup_backups"
}

func (b *StockupBackup) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.UploadedAt.IsZero() {
		b.UploadedAt = time.Now().UTC()
	}
	return nil
}
