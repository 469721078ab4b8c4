package discovery

import (
	"context"
	"fmt"

	"storefront-discovery/internal/domain"

	"go.uber.org/zap"
)

// ImageStore fetches image rows for a set of products, ordered by sort_order.
type ImageStore interface {
	ListImagesByProductIDs(ctx context.Context, ids []string) ([]domain.ProductImage, error)
}

// StockCalculator produces the stock figure shown to shoppers, typically by
// aggregating per-variant quantities. A calculator failure is absorbed as
// stock 0; it never fails a discovery request.
type StockCalculator interface {
	ComputeStock(ctx context.Context, p domain.Product) (int, error)
}

// Result is the final page of a discovery query.
type Result struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

// Engine is the per-request discovery pipeline: degradation ladder, category
// resolution, visibility filtering, and enrichment. It holds no mutable
// state; one value serves concurrent requests.
type Engine struct {
	ladder   *Ladder
	resolver *Resolver
	images   ImageStore
	stock    StockCalculator
	log      *zap.Logger
}

// NewEngine wires the pipeline stages over the given collaborators.
func NewEngine(products ProductStore, categories CategoryStore, images ImageStore, stock StockCalculator, log *zap.Logger) *Engine {
	return &Engine{
		ladder:   NewLadder(products, log),
		resolver: NewResolver(categories, log),
		images:   images,
		stock:    stock,
		log:      log,
	}
}

// Discover runs the full pipeline for one filter set. Zero matching rows is
// a successful outcome; only store failures surface as errors.
func (e *Engine) Discover(ctx context.Context, f domain.DiscoveryFilter) (*Result, error) {
	fetched, err := e.ladder.Fetch(ctx, f)
	if err != nil {
		return nil, err
	}
	products := fetched.Products
	avail := fetched.Available

	if f.CategoryID != "" {
		switch {
		case !avail.Has(ColCategoryID):
			// The id column never made it into the query; the rows in hand
			// are already the unscoped candidate set.
			products = e.resolver.Resolve(ctx, f.CategoryID, products)
		case len(products) == 0:
			// The id predicate was honored but matched nothing; refetch
			// without it and fall back to fuzzy matching.
			unscoped := f
			unscoped.CategoryID = ""
			refetched, err := e.ladder.Fetch(ctx, unscoped)
			if err != nil {
				return nil, err
			}
			avail = refetched.Available
			products = e.resolver.Resolve(ctx, f.CategoryID, refetched.Products)
		}
	}

	products = FilterVisible(products, avail)

	products, err = e.enrich(ctx, products)
	if err != nil {
		return nil, err
	}

	return &Result{Products: products, Count: len(products)}, nil
}

// enrich attaches ordered image URL lists and replaces stock_quantity with
// the calculator's figure.
func (e *Engine) enrich(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	if len(products) == 0 {
		return []domain.Product{}, nil
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	images, err := e.images.ListImagesByProductIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load product images: %w", err)
	}

	urlsByProduct := make(map[string][]string, len(products))
	for _, img := range images {
		urlsByProduct[img.ProductID] = append(urlsByProduct[img.ProductID], img.ImageURL)
	}

	for i := range products {
		p := &products[i]

		urls := urlsByProduct[p.ID]
		if urls == nil {
			urls = []string{}
		}
		p.Images = urls

		stock, err := e.stock.ComputeStock(ctx, *p)
		if err != nil {
			e.log.Warn("Stock computation failed, defaulting to zero",
				zap.String("product_id", p.ID),
				zap.Error(err),
			)
			stock = 0
		}
		p.StockQuantity = stock
	}

	return products, nil
}
