package models

import (
	"time"

	"github.com/bettersale/bettersale-backend/pkg/enums"
)

// Order is created in pending status when a cart is converted. TotalCents is
// always recomputed from the line items before persisting; the two may never
// disagree.
type Order struct {
	ID         string            `gorm:"column:id;primaryKey"`
	CustomerID string            `gorm:"column:customer_id;not null;index"`
	Status     enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	TotalCents int               `gorm:"column:total_cents;not null"`
	PlacedAt   time.Time         `gorm:"column:placed_at;autoCreateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ItemsTotalCents sums the snapshot-priced line items.
func (o Order) ItemsTotalCents() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity * item.UnitPriceCents
	}
	return total
}
