package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bettersale/bettersale-backend/pkg/enums"
	"github.com/bettersale/bettersale-backend/pkg/types"
)

// ItemChange is one requested cart mutation. For additions Quantity is the
// number of units to add and must be positive. For removals Quantity is the
// number of units to take away; zero means the whole line.
type ItemChange struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// CartLine is one priced line of a cart snapshot. UnitPrice reflects the
// snapshot taken when the item entered the cart, not the live catalog price.
type CartLine struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	LineSubtotal  decimal.Decimal `json:"line_subtotal"`
	unitCents     int
	subtotalCents int
}

// CartSnapshot is the engine's read model of one customer's cart. It is
// always internally consistent: Subtotal equals the sum of the line
// subtotals at the moment the snapshot was taken.
type CartSnapshot struct {
	CustomerID      string          `json:"customer_id"`
	Items           []CartLine      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Currency        enums.Currency  `json:"currency"`
	ClampedRemovals []string        `json:"clamped_removals,omitempty"`
	Degraded        bool            `json:"degraded"`
}

// OrderConfirmation is returned by PlaceOrder and the order-history reads.
type OrderConfirmation struct {
	OrderID  string            `json:"order_id"`
	Status   enums.OrderStatus `json:"status"`
	Total    decimal.Decimal   `json:"total"`
	Currency enums.Currency    `json:"currency"`
	Items    []CartLine        `json:"items"`
	PlacedAt time.Time         `json:"placed_at"`
	Degraded bool              `json:"degraded"`
}

func newCartLine(productID, name string, quantity, unitCents int) CartLine {
	subtotal := quantity * unitCents
	return CartLine{
		ProductID:     productID,
		Name:          name,
		Quantity:      quantity,
		UnitPrice:     types.Dollars(unitCents),
		LineSubtotal:  types.Dollars(subtotal),
		unitCents:     unitCents,
		subtotalCents: subtotal,
	}
}
