package models

import "time"

// CartItem is one line of a customer's cart. Quantity is always positive;
// removing the last unit deletes the row. UnitPriceCents is snapshotted when
// the item is added and is not refreshed when the catalog price moves.
type CartItem struct {
	ID             uint   `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID     string `gorm:"column:customer_id;not null;uniqueIndex:idx_cart_customer_product"`
	ProductID      string `gorm:"column:product_id;not null;uniqueIndex:idx_cart_customer_product"`
	Quantity       int    `gorm:"column:quantity;not null"`
	UnitPriceCents int    `gorm:"column:unit_price_cents;not null"`

	AddedAt   time.Time `gorm:"column:added_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// LineSubtotalCents is the snapshot-priced contribution of this line.
func (c CartItem) LineSubtotalCents() int {
	return c.Quantity * c.UnitPriceCents
}
