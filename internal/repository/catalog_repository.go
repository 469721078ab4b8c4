package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storefront-discovery/internal/discovery"
	"storefront-discovery/internal/domain"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

// CatalogRepository is the read-only data access surface of the discovery
// engine. The catalog tables are owned and mutated elsewhere; this side only
// queries them.
type CatalogRepository interface {
	QueryProducts(ctx context.Context, q discovery.QueryDescriptor) ([]domain.Product, error)
	FindCategoryByID(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	ListImagesByProductIDs(ctx context.Context, ids []string) ([]domain.ProductImage, error)
	VariantQuantity(ctx context.Context, productID string) (total int, variants int, err error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// QueryProducts renders and executes a query descriptor. Column names come
// exclusively from the descriptor's Column constants, never from request
// input, so interpolating them into the query text is safe; all values go
// through positional parameters. Schema errors are returned unwrapped so the
// degradation ladder can classify them.
func (r *catalogRepository) QueryProducts(ctx context.Context, q discovery.QueryDescriptor) ([]domain.Product, error) {
	query, args := renderProductQuery(q)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows, q.Projection)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func renderProductQuery(q discovery.QueryDescriptor) (string, []any) {
	cols := make([]string, 0, len(q.Projection))
	for _, c := range q.Projection {
		cols = append(cols, string(c))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM products")

	args := []any{}
	clauses := []string{}
	for _, p := range q.Predicates {
		switch p.Op {
		case discovery.OpEquals:
			args = append(args, p.Value)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", p.Column, len(args)))
		case discovery.OpContains:
			args = append(args, "%"+p.Value+"%")
			clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", p.Column, len(args)))
		case discovery.OpIsTrue:
			clauses = append(clauses, fmt.Sprintf("%s = TRUE", p.Column))
		case discovery.OpVisibleStatus:
			placeholders := make([]string, 0, len(p.Values))
			for _, v := range p.Values {
				args = append(args, v)
				placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
			}
			clauses = append(clauses, fmt.Sprintf("(%s IS NULL OR LOWER(%s) IN (%s))",
				p.Column, p.Column, strings.Join(placeholders, ", ")))
		}
	}
	if len(clauses) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}

	if q.Sort != nil {
		direction := "ASC"
		if q.Sort.Desc {
			direction = "DESC"
		}
		sb.WriteString(fmt.Sprintf(" ORDER BY %s %s", q.Sort.Column, direction))
		if q.Sort.NullsLast {
			sb.WriteString(" NULLS LAST")
		}
	}

	if q.Limit > 0 {
		args = append(args, q.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	return sb.String(), args
}

// scanProduct scans one row into a Product using the projection to pair
// columns with struct fields. Nullable holders cover the fields kept as
// plain values on the struct.
func scanProduct(rows *sql.Rows, projection []discovery.Column) (domain.Product, error) {
	var (
		p        domain.Product
		stock    sql.NullInt64
		featured sql.NullBool
		onSale   sql.NullBool
		vendor   sql.NullString
		created  sql.NullTime
		updated  sql.NullTime
	)

	dest := make([]any, 0, len(projection))
	for _, c := range projection {
		switch c {
		case discovery.ColID:
			dest = append(dest, &p.ID)
		case discovery.ColName:
			dest = append(dest, &p.Name)
		case discovery.ColDescription:
			dest = append(dest, &p.Description)
		case discovery.ColPrice:
			dest = append(dest, &p.Price)
		case discovery.ColOriginalPrice:
			dest = append(dest, &p.OriginalPrice)
		case discovery.ColSKU:
			dest = append(dest, &p.SKU)
		case discovery.ColStockQuantity:
			dest = append(dest, &stock)
		case discovery.ColWeight:
			dest = append(dest, &p.Weight)
		case discovery.ColStatus:
			dest = append(dest, &p.Status)
		case discovery.ColIsFeatured:
			dest = append(dest, &featured)
		case discovery.ColIsOnSale:
			dest = append(dest, &onSale)
		case discovery.ColCreatedAt:
			dest = append(dest, &created)
		case discovery.ColUpdatedAt:
			dest = append(dest, &updated)
		case discovery.ColVendorID:
			dest = append(dest, &vendor)
		case discovery.ColCategoryID:
			dest = append(dest, &p.CategoryID)
		case discovery.ColCategory:
			dest = append(dest, &p.Category)
		case discovery.ColSubCategory:
			dest = append(dest, &p.SubCategory)
		case discovery.ColRating:
			dest = append(dest, &p.Rating)
		case discovery.ColReviewCount:
			dest = append(dest, &p.ReviewCount)
		default:
			return p, fmt.Errorf("no scan target for column %q", c)
		}
	}

	if err := rows.Scan(dest...); err != nil {
		return p, err
	}

	p.StockQuantity = int(stock.Int64)
	p.IsFeatured = featured.Bool
	p.IsOnSale = onSale.Bool
	p.VendorID = vendor.String
	p.CreatedAt = created.Time
	p.UpdatedAt = updated.Time

	return p, nil
}

// FindCategoryByID retrieves a category by ID using parameterized queries
func (r *catalogRepository) FindCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `
		SELECT id, name, slug, description, created_at
		FROM categories
		WHERE id = $1
	`

	category := &domain.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// ListCategories retrieves all categories ordered by name
func (r *catalogRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, slug, description, created_at
		FROM categories
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category := &domain.Category{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&category.Description,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// ListImagesByProductIDs retrieves all images for the given products in
// display order (sort_order ascending).
func (r *catalogRepository) ListImagesByProductIDs(ctx context.Context, ids []string) ([]domain.ProductImage, error) {
	if len(ids) == 0 {
		return []domain.ProductImage{}, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT id, product_id, image_url, sort_order, is_primary
		FROM product_images
		WHERE product_id IN (%s)
		ORDER BY sort_order ASC
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list product images: %w", err)
	}
	defer rows.Close()

	images := []domain.ProductImage{}
	for rows.Next() {
		img := domain.ProductImage{}
		err := rows.Scan(
			&img.ID,
			&img.ProductID,
			&img.ImageURL,
			&img.SortOrder,
			&img.IsPrimary,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		images = append(images, img)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product images: %w", err)
	}

	return images, nil
}

// VariantQuantity sums variant quantities for a product and reports how many
// variant rows exist, so callers can tell "no variants" apart from zero
// stock.
func (r *catalogRepository) VariantQuantity(ctx context.Context, productID string) (int, int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0), COUNT(*)
		FROM product_variants
		WHERE product_id = $1
	`

	var total, variants int
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&total, &variants)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum variant quantities: %w", err)
	}

	return total, variants, nil
}
