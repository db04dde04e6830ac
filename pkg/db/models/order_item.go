package models

import "time"

// OrderItem captures the snapshot of one cart line at order placement time.
// Immutable once the parent order is confirmed.
type OrderItem struct {
	ID             uint   `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID        string `gorm:"column:order_id;not null;index"`
	ProductID      string `gorm:"column:product_id;not null"`
	Quantity       int    `gorm:"column:quantity;not null"`
	UnitPriceCents int    `gorm:"column:unit_price_cents;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
