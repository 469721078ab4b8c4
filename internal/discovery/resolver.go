package discovery

import (
	"context"
	"strings"

	"storefront-discovery/internal/domain"

	"go.uber.org/zap"
)

// CategoryStore looks up category records for fuzzy fallback resolution.
type CategoryStore interface {
	FindCategoryByID(ctx context.Context, id string) (*domain.Category, error)
}

// Resolver scopes products to a requested category when the id relationship
// is broken or absent, by fuzzy-matching free-text category names against
// the category record's name and slug.
type Resolver struct {
	categories CategoryStore
	log        *zap.Logger
}

// NewResolver creates a Resolver over the given category store.
func NewResolver(categories CategoryStore, log *zap.Logger) *Resolver {
	return &Resolver{categories: categories, log: log}
}

// Resolve filters candidates down to those matching the requested category.
// If the category lookup fails or finds nothing, the candidates are returned
// unfiltered: showing too much beats showing an empty shelf because of a
// broken reference. Candidate order is preserved.
func (r *Resolver) Resolve(ctx context.Context, requestedID string, candidates []domain.Product) []domain.Product {
	cat, err := r.categories.FindCategoryByID(ctx, requestedID)
	if err != nil || cat == nil {
		r.log.Warn("Category lookup failed during fuzzy fallback, returning unfiltered candidates",
			zap.String("category_id", requestedID),
			zap.Error(err),
		)
		return candidates
	}

	name := Normalize(cat.Name)
	slug := Normalize(cat.Slug)

	matched := make([]domain.Product, 0, len(candidates))
	for _, p := range candidates {
		if matchesCategory(p, requestedID, name, slug) {
			matched = append(matched, p)
		}
	}
	return matched
}

// matchesCategory evaluates the ordered match predicates, first true wins:
// exact id, then name/slug/substring against the category field, then the
// same three against the sub-category field.
func matchesCategory(p domain.Product, requestedID, name, slug string) bool {
	if p.CategoryID != nil && *p.CategoryID == requestedID {
		return true
	}
	if p.Category != nil && fieldMatches(Normalize(*p.Category), name, slug) {
		return true
	}
	if p.SubCategory != nil && fieldMatches(Normalize(*p.SubCategory), name, slug) {
		return true
	}
	return false
}

func fieldMatches(value, name, slug string) bool {
	if value == "" {
		return false
	}
	if name != "" && value == name {
		return true
	}
	if slug != "" && value == slug {
		return true
	}
	if name != "" && (strings.Contains(value, name) || strings.Contains(name, value)) {
		return true
	}
	return false
}
