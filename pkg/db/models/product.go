package models

import "time"

// Product is a catalog record. The core never mutates products; the catalog
// is maintained by an external service.
type Product struct {
	ID             string `gorm:"column:id;primaryKey"`
	Name           string `gorm:"column:name;not null"`
	Description    string `gorm:"column:description"`
	PriceCents     int    `gorm:"column:price_cents;not null"`
	Category       string `gorm:"column:category"`
	Sport          string `gorm:"column:sport;index"`
	InventoryCount int    `gorm:"column:inventory_count;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
