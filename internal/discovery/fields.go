package discovery

// Column names a column of the product table. Only catalog constants ever
// reach SQL text; raw request input never does.
type Column string

const (
	ColID            Column = "id"
	ColName          Column = "name"
	ColDescription   Column = "description"
	ColPrice         Column = "price"
	ColOriginalPrice Column = "original_price"
	ColSKU           Column = "sku"
	ColStockQuantity Column = "stock_quantity"
	ColWeight        Column = "weight"
	ColStatus        Column = "status"
	ColIsFeatured    Column = "is_featured"
	ColIsOnSale      Column = "is_on_sale"
	ColCreatedAt     Column = "created_at"
	ColUpdatedAt     Column = "updated_at"
	ColVendorID      Column = "vendor_id"
	ColCategoryID    Column = "category_id"
	ColCategory      Column = "category"
	ColSubCategory   Column = "sub_category"
	ColRating        Column = "rating"
	ColReviewCount   Column = "review_count"
)

// IdealCatalog returns the ordered column list the engine prefers to read.
// Projection order is always this order, filtered by availability.
func IdealCatalog() []Column {
	return []Column{
		ColID, ColName, ColDescription, ColPrice, ColOriginalPrice,
		ColSKU, ColStockQuantity, ColWeight, ColStatus, ColIsFeatured,
		ColIsOnSale, ColCreatedAt, ColUpdatedAt, ColVendorID,
		ColCategoryID, ColCategory, ColSubCategory, ColRating,
		ColReviewCount,
	}
}

// MinimalCatalog returns the hard floor of the degradation ladder. It omits
// the schema-volatile columns (status, category_id, the flag and rating
// columns) so a final attempt has the best chance of surviving any store
// this engine is pointed at.
func MinimalCatalog() []Column {
	return []Column{
		ColID, ColName, ColDescription, ColPrice, ColOriginalPrice,
		ColSKU, ColStockQuantity, ColCreatedAt, ColUpdatedAt,
		ColVendorID, ColCategory, ColSubCategory,
	}
}

// ColumnSet is the set of columns an attempt (or a store) supports.
type ColumnSet map[Column]struct{}

// NewColumnSet builds a set from an ordered column list.
func NewColumnSet(cols []Column) ColumnSet {
	s := make(ColumnSet, len(cols))
	for _, c := range cols {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether c is in the set.
func (s ColumnSet) Has(c Column) bool {
	_, ok := s[c]
	return ok
}

// Without returns a copy of the set with c removed.
func (s ColumnSet) Without(c Column) ColumnSet {
	out := make(ColumnSet, len(s))
	for k := range s {
		if k != c {
			out[k] = struct{}{}
		}
	}
	return out
}
