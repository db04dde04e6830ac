// Package catalog resolves product data for pricing, recommendations, and
// availability checks. The store-backed reader rides the backend selection
// policy; an optional Redis read-through layer sits in front of it.
package catalog

import (
	"context"

	"github.com/bettersale/bettersale-backend/internal/backend"
	"github.com/bettersale/bettersale-backend/pkg/db/models"
)

// Reader is the lookup surface the engine and product services consume.
type Reader interface {
	// Product resolves a single product by id.
	Product(ctx context.Context, productID string) (*models.Product, error)
	// BySport lists products for a sport, case-insensitively.
	BySport(ctx context.Context, sport string) ([]models.Product, error)
}

// StoreReader serves catalog lookups through the dual-backend selector, so
// product data keeps resolving while the persistent store is down.
type StoreReader struct {
	sel *backend.Selector
}

var _ Reader = (*StoreReader)(nil)

// NewStoreReader wires the selector-backed reader.
func NewStoreReader(sel *backend.Selector) *StoreReader {
	return &StoreReader{sel: sel}
}

func (r *StoreReader) Product(ctx context.Context, productID string) (*models.Product, error) {
	var product *models.Product
	_, err := r.sel.Run(ctx, "catalog_product", func(s backend.Store) error {
		var err error
		product, err = s.GetProduct(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *StoreReader) BySport(ctx context.Context, sport string) ([]models.Product, error) {
	var products []models.Product
	_, err := r.sel.Run(ctx, "catalog_by_sport", func(s backend.Store) error {
		var err error
		products, err = s.ProductsBySport(ctx, sport)
		return err
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}
