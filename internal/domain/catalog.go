package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SortKey selects the single explicit sort applied to a discovery query.
type SortKey string

const (
	SortTrending  SortKey = "trending"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNewest    SortKey = "newest"
	SortDefault   SortKey = "default"
)

// ParseSortKey maps a raw query value to a SortKey. Unrecognized values fall
// back to the default sort rather than failing the request.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortTrending, SortPriceAsc, SortPriceDesc, SortNewest:
		return SortKey(raw)
	default:
		return SortDefault
	}
}

// Product represents a catalog entry as the discovery engine reads it. The
// underlying table is owned by the admin subsystem and predates most of the
// optional columns, so everything beyond id and name is nullable here.
type Product struct {
	ID            string              `json:"id" db:"id"`
	Name          string              `json:"name" db:"name"`
	Description   *string             `json:"description" db:"description"`
	Price         decimal.NullDecimal `json:"price" db:"price"`
	OriginalPrice decimal.NullDecimal `json:"original_price" db:"original_price"`
	SKU           *string             `json:"sku,omitempty" db:"sku"`
	StockQuantity int                 `json:"stock_quantity" db:"stock_quantity"`
	Weight        *float64            `json:"weight,omitempty" db:"weight"`
	Status        *string             `json:"status,omitempty" db:"status"`
	IsFeatured    bool                `json:"is_featured" db:"is_featured"`
	IsOnSale      bool                `json:"is_on_sale" db:"is_on_sale"`
	Rating        *float64            `json:"rating,omitempty" db:"rating"`
	ReviewCount   *int                `json:"review_count,omitempty" db:"review_count"`
	Category      *string             `json:"category" db:"category"`
	SubCategory   *string             `json:"sub_category" db:"sub_category"`
	CategoryID    *string             `json:"category_id,omitempty" db:"category_id"`
	VendorID      string              `json:"vendor_id" db:"vendor_id"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`

	// Images is attached by the discovery pipeline, ordered by sort_order.
	Images []string `json:"images"`
}

// Category represents a product category. Products may reference it by id,
// by free-text name, or not at all; no referential integrity is assumed.
type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ProductImage is one image row for a product. Display order is ascending
// sort_order; the first image is the cover even when is_primary is unset.
type ProductImage struct {
	ID        string `json:"id" db:"id"`
	ProductID string `json:"product_id" db:"product_id"`
	ImageURL  string `json:"image_url" db:"image_url"`
	SortOrder int    `json:"sort_order" db:"sort_order"`
	IsPrimary bool   `json:"is_primary" db:"is_primary"`
}

// ProductVariant is a size/color variant carrying its own quantity. Stock
// shown to shoppers is aggregated across variants, not read off the product.
type ProductVariant struct {
	ID        string `json:"id" db:"id"`
	ProductID string `json:"product_id" db:"product_id"`
	Size      string `json:"size" db:"size"`
	Color     string `json:"color" db:"color"`
	Quantity  int    `json:"quantity" db:"quantity"`
}

// DiscoveryFilter is the request-scoped filter set for one discovery query.
type DiscoveryFilter struct {
	CategoryID   string  `json:"category_id"`
	Search       string  `json:"search"`
	FeaturedOnly bool    `json:"featured"`
	OnSaleOnly   bool    `json:"sale"`
	Sort         SortKey `json:"sort"`
	Limit        int     `json:"limit" validate:"gte=0"`
	Offset       int     `json:"offset" validate:"gte=0"`
}
