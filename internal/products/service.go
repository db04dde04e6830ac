// Package products answers catalog questions for the assistant:
// recommendations by sport and per-store availability.
package products

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bettersale/bettersale-backend/internal/backend"
	"github.com/bettersale/bettersale-backend/internal/catalog"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
	"github.com/bettersale/bettersale-backend/pkg/logger"
	"github.com/bettersale/bettersale-backend/pkg/types"
)

// Recommendation is one suggested product.
type Recommendation struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
}

// Availability reports stock for one product at one store.
type Availability struct {
	ProductID string `json:"product_id"`
	Available bool   `json:"available"`
	Quantity  int    `json:"quantity"`
	Store     string `json:"store"`
}

// Service serves recommendation and availability lookups.
type Service struct {
	catalog catalog.Reader
	sel     *backend.Selector
	logg    *logger.Logger
}

// New wires the product service.
func New(reader catalog.Reader, sel *backend.Selector, logg *logger.Logger) *Service {
	return &Service{catalog: reader, sel: sel, logg: logg}
}

// Recommendations lists catalog products for a sport or activity, skipping
// anything already in the customer's cart. An empty customer id skips the
// cart exclusion.
func (s *Service) Recommendations(ctx context.Context, sportOrActivity, customerID string) ([]Recommendation, error) {
	if sportOrActivity == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sport or activity is required")
	}

	products, err := s.catalog.BySport(ctx, sportOrActivity)
	if err != nil {
		return nil, err
	}

	inCart := map[string]bool{}
	if customerID != "" {
		_, err := s.sel.Run(ctx, "get_product_recommendations", func(store backend.Store) error {
			items, err := store.GetCartItems(ctx, customerID)
			if err != nil {
				return err
			}
			for _, item := range items {
				inCart[item.ProductID] = true
			}
			return nil
		})
		// An unknown customer still gets generic recommendations.
		if err != nil && pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
			return nil, err
		}
	}

	out := make([]Recommendation, 0, len(products))
	for _, p := range products {
		if inCart[p.ID] {
			continue
		}
		out = append(out, Recommendation{
			ProductID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       types.Dollars(p.PriceCents),
			Category:    p.Category,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// CheckAvailability reports whether a product is in stock. An unknown
// product is reported as unavailable rather than an error; the assistant
// asks about products that may not exist.
func (s *Service) CheckAvailability(ctx context.Context, productID, storeID string) (*Availability, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if storeID == "" {
		storeID = "Main Store"
	}

	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		if pkgerrors.CodeOf(err) == pkgerrors.CodeNotFound {
			return &Availability{ProductID: productID, Available: false, Quantity: 0, Store: storeID}, nil
		}
		return nil, err
	}

	return &Availability{
		ProductID: product.ID,
		Available: product.InventoryCount > 0,
		Quantity:  product.InventoryCount,
		Store:     storeID,
	}, nil
}
