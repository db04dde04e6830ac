// Package engine owns cart and order state transitions. All mutations for a
// single customer are serialized behind a keyed lock and applied through the
// backend selection policy, so a primary-store outage degrades service
// instead of corrupting it.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bettersale/bettersale-backend/internal/backend"
	"github.com/bettersale/bettersale-backend/internal/catalog"
	"github.com/bettersale/bettersale-backend/pkg/db/models"
	"github.com/bettersale/bettersale-backend/pkg/enums"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
	"github.com/bettersale/bettersale-backend/pkg/logger"
	"github.com/bettersale/bettersale-backend/pkg/types"
)

// Service is the cart/order engine.
type Service struct {
	sel     *backend.Selector
	catalog catalog.Reader
	logg    *logger.Logger
	locks   keyedLocks

	now   func() time.Time
	newID func() string
}

// New wires the engine.
func New(sel *backend.Selector, reader catalog.Reader, logg *logger.Logger) *Service {
	return &Service{
		sel:     sel,
		catalog: reader,
		logg:    logg,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   NewOrderID,
	}
}

// NewOrderID mints an order id in the ORD-XXXXXXXX form.
func NewOrderID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "ORD-" + strings.ToUpper(raw[:8])
}

// GetCart returns the customer's current cart snapshot.
func (s *Service) GetCart(ctx context.Context, customerID string) (*CartSnapshot, error) {
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	unlock := s.locks.lock(customerID)
	defer unlock()

	var items []models.CartItem
	degraded, err := s.sel.Run(ctx, "access_cart", func(store backend.Store) error {
		var err error
		items, err = store.GetCartItems(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, customerID, items, nil, degraded), nil
}

// ModifyCart applies removals then additions as one atomic unit. Removals
// beyond what the cart holds are clamped and reported; every addition
// re-snapshots the line's unit price from the catalog.
func (s *Service) ModifyCart(ctx context.Context, customerID string, adds, removes []ItemChange) (*CartSnapshot, error) {
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	for _, change := range adds {
		if change.ProductID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		if change.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity to add must be positive")
		}
	}
	for _, change := range removes {
		if change.ProductID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		if change.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity to remove cannot be negative")
		}
	}

	// Resolve catalog prices before touching cart state, so an unknown
	// product rejects the whole call with nothing applied.
	prices := make(map[string]int, len(adds))
	names := make(map[string]string, len(adds))
	for _, change := range adds {
		if _, ok := prices[change.ProductID]; ok {
			continue
		}
		product, err := s.catalog.Product(ctx, change.ProductID)
		if err != nil {
			return nil, err
		}
		prices[change.ProductID] = product.PriceCents
		names[change.ProductID] = product.Name
	}

	unlock := s.locks.lock(customerID)
	defer unlock()

	var (
		result  []models.CartItem
		clamped []string
	)
	degraded, err := s.sel.Run(ctx, "modify_cart", func(store backend.Store) error {
		current, err := store.GetCartItems(ctx, customerID)
		if err != nil {
			return err
		}

		lines := make(map[string]models.CartItem, len(current))
		order := make([]string, 0, len(current))
		ordered := make(map[string]bool, len(current))
		for _, item := range current {
			lines[item.ProductID] = item
			order = append(order, item.ProductID)
			ordered[item.ProductID] = true
		}

		clamped = clamped[:0]
		removeIDs := make([]string, 0, len(removes))
		upserts := make(map[string]models.CartItem)

		for _, change := range removes {
			line, ok := lines[change.ProductID]
			if !ok {
				clamped = append(clamped, change.ProductID)
				continue
			}
			switch {
			case change.Quantity == 0 || change.Quantity >= line.Quantity:
				if change.Quantity > line.Quantity {
					clamped = append(clamped, change.ProductID)
				}
				delete(lines, change.ProductID)
				delete(upserts, change.ProductID)
				removeIDs = append(removeIDs, change.ProductID)
			default:
				line.Quantity -= change.Quantity
				lines[change.ProductID] = line
				upserts[change.ProductID] = line
			}
		}

		for _, change := range adds {
			line, ok := lines[change.ProductID]
			if !ok {
				line = models.CartItem{
					CustomerID: customerID,
					ProductID:  change.ProductID,
				}
			}
			if !ordered[change.ProductID] {
				order = append(order, change.ProductID)
				ordered[change.ProductID] = true
			}
			line.Quantity += change.Quantity
			line.UnitPriceCents = prices[change.ProductID]
			lines[change.ProductID] = line
			upserts[change.ProductID] = line
		}

		upsertList := make([]models.CartItem, 0, len(upserts))
		for _, productID := range order {
			if line, ok := upserts[productID]; ok {
				upsertList = append(upsertList, line)
			}
		}
		if err := store.ApplyCartChanges(ctx, customerID, upsertList, removeIDs); err != nil {
			return err
		}

		result = result[:0]
		for _, productID := range order {
			if line, ok := lines[productID]; ok {
				result = append(result, line)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithCustomerID(ctx, customerID)
	if len(clamped) > 0 {
		logCtx = s.logg.WithField(logCtx, "clamped_removals", clamped)
	}
	s.logg.Info(logCtx, "cart modified")

	return s.snapshot(ctx, customerID, result, clamped, degraded), nil
}

// PlaceOrder converts the cart into a pending order at the snapshotted
// prices. The order insert and cart clear happen in the same unit of work;
// an empty cart is rejected before anything is written.
func (s *Service) PlaceOrder(ctx context.Context, customerID string) (*OrderConfirmation, error) {
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	unlock := s.locks.lock(customerID)
	defer unlock()

	var placed models.Order
	degraded, err := s.sel.Run(ctx, "place_order", func(store backend.Store) error {
		items, err := store.GetCartItems(ctx, customerID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty, nothing to order")
		}

		order := models.Order{
			ID:         s.newID(),
			CustomerID: customerID,
			Status:     enums.OrderStatusPending,
			PlacedAt:   s.now(),
		}
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			order.TotalCents += item.LineSubtotalCents()
			orderItems = append(orderItems, models.OrderItem{
				ProductID:      item.ProductID,
				Quantity:       item.Quantity,
				UnitPriceCents: item.UnitPriceCents,
			})
		}

		if err := store.CreateOrder(ctx, &order, orderItems); err != nil {
			return err
		}
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"customer_id": customerID,
		"order_id":    placed.ID,
		"total_cents": placed.TotalCents,
	})
	s.logg.Info(logCtx, "order placed")

	return s.confirmation(ctx, placed, degraded), nil
}

// ListOrders returns the customer's order history, oldest first.
func (s *Service) ListOrders(ctx context.Context, customerID string) ([]OrderConfirmation, error) {
	var orders []models.Order
	degraded, err := s.sel.Run(ctx, "list_orders", func(store backend.Store) error {
		var err error
		orders, err = store.ListOrders(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]OrderConfirmation, 0, len(orders))
	for _, order := range orders {
		out = append(out, *s.confirmation(ctx, order, degraded))
	}
	return out, nil
}

// GetOrder resolves a single order by id.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*OrderConfirmation, error) {
	var order *models.Order
	degraded, err := s.sel.Run(ctx, "get_order", func(store backend.Store) error {
		var err error
		order, err = store.GetOrder(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.confirmation(ctx, *order, degraded), nil
}

func (s *Service) snapshot(ctx context.Context, customerID string, items []models.CartItem, clamped []string, degraded bool) *CartSnapshot {
	snap := &CartSnapshot{
		CustomerID:      customerID,
		Items:           make([]CartLine, 0, len(items)),
		Currency:        enums.CurrencyUSD,
		ClampedRemovals: append([]string(nil), clamped...),
		Degraded:        degraded,
	}
	total := 0
	for _, item := range items {
		line := newCartLine(item.ProductID, s.productName(ctx, item.ProductID), item.Quantity, item.UnitPriceCents)
		total += line.subtotalCents
		snap.Items = append(snap.Items, line)
	}
	snap.Subtotal = types.Dollars(total)
	return snap
}

func (s *Service) confirmation(ctx context.Context, order models.Order, degraded bool) *OrderConfirmation {
	out := &OrderConfirmation{
		OrderID:  order.ID,
		Status:   order.Status,
		Total:    types.Dollars(order.TotalCents),
		Currency: enums.CurrencyUSD,
		Items:    make([]CartLine, 0, len(order.Items)),
		PlacedAt: order.PlacedAt,
		Degraded: degraded,
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, newCartLine(item.ProductID, s.productName(ctx, item.ProductID), item.Quantity, item.UnitPriceCents))
	}
	return out
}

// productName resolves a display name best-effort; state reads must not fail
// because a catalog row went away.
func (s *Service) productName(ctx context.Context, productID string) string {
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return productID
	}
	return product.Name
}
