package stock

import (
	"context"
	"fmt"

	"storefront-discovery/internal/domain"
)

// VariantStore provides the per-variant quantity aggregate for a product.
type VariantStore interface {
	VariantQuantity(ctx context.Context, productID string) (total int, variants int, err error)
}

// Calculator computes the stock figure shown to shoppers. Products with
// variants report the sum of variant quantities; products without variants
// fall back to their own stock_quantity column.
type Calculator struct {
	variants VariantStore
}

// NewCalculator creates a Calculator over the given variant store.
func NewCalculator(variants VariantStore) *Calculator {
	return &Calculator{variants: variants}
}

// ComputeStock returns the computed stock for one product.
func (c *Calculator) ComputeStock(ctx context.Context, p domain.Product) (int, error) {
	total, variants, err := c.variants.VariantQuantity(ctx, p.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute stock for product %s: %w", p.ID, err)
	}

	if variants == 0 {
		return p.StockQuantity, nil
	}
	return total, nil
}
