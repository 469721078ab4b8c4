package discovery

import (
	"storefront-discovery/internal/domain"
)

// PredicateOp is the comparison a predicate applies.
type PredicateOp int

const (
	// OpEquals matches the column against Value exactly.
	OpEquals PredicateOp = iota
	// OpContains matches Value as a case-insensitive substring.
	OpContains
	// OpIsTrue matches boolean columns set to true.
	OpIsTrue
	// OpVisibleStatus matches NULL or any of the Values, case-insensitively.
	OpVisibleStatus
)

// Predicate is one declarative WHERE condition.
type Predicate struct {
	Column Column
	Op     PredicateOp
	Value  string
	Values []string
}

// SortClause is the single explicit ORDER BY of a query, if any.
type SortClause struct {
	Column    Column
	Desc      bool
	NullsLast bool
}

// QueryDescriptor is a fully-built product query: projection, predicates,
// optional sort, and the pagination window. It is inert data; the repository
// renders and executes it.
type QueryDescriptor struct {
	Projection []Column
	Predicates []Predicate
	Sort       *SortClause
	Limit      int
	Offset     int
}

// PublicStatuses returns the lifecycle statuses visible to shoppers.
func PublicStatuses() []string {
	return []string{"active", "approved", "published"}
}

// BuildQuery constructs a descriptor for the filter against the columns the
// store is known to support. Predicates and the sort clause are emitted only
// when their column is available, so a degraded attempt can never trip over
// a column that already failed. Pure construction, no side effects.
func BuildQuery(f domain.DiscoveryFilter, avail ColumnSet) QueryDescriptor {
	var projection []Column
	for _, c := range IdealCatalog() {
		if avail.Has(c) {
			projection = append(projection, c)
		}
	}

	var predicates []Predicate
	if avail.Has(ColStatus) {
		predicates = append(predicates, Predicate{
			Column: ColStatus,
			Op:     OpVisibleStatus,
			Values: PublicStatuses(),
		})
	}
	if f.Search != "" && avail.Has(ColName) {
		predicates = append(predicates, Predicate{
			Column: ColName,
			Op:     OpContains,
			Value:  f.Search,
		})
	}
	if f.FeaturedOnly && avail.Has(ColIsFeatured) {
		predicates = append(predicates, Predicate{Column: ColIsFeatured, Op: OpIsTrue})
	}
	if f.OnSaleOnly && avail.Has(ColIsOnSale) {
		predicates = append(predicates, Predicate{Column: ColIsOnSale, Op: OpIsTrue})
	}
	if f.CategoryID != "" && avail.Has(ColCategoryID) {
		predicates = append(predicates, Predicate{
			Column: ColCategoryID,
			Op:     OpEquals,
			Value:  f.CategoryID,
		})
	}

	return QueryDescriptor{
		Projection: projection,
		Predicates: predicates,
		Sort:       sortClauseFor(f.Sort, avail),
		Limit:      f.Limit,
		Offset:     f.Offset,
	}
}

// sortClauseFor picks the explicit sort for the request. When the sort
// column is not available the clause is dropped silently and the store's
// default order applies.
func sortClauseFor(key domain.SortKey, avail ColumnSet) *SortClause {
	var clause SortClause
	switch key {
	case domain.SortTrending:
		clause = SortClause{Column: ColRating, Desc: true}
	case domain.SortPriceAsc:
		clause = SortClause{Column: ColPrice, NullsLast: true}
	case domain.SortPriceDesc:
		clause = SortClause{Column: ColPrice, Desc: true, NullsLast: true}
	case domain.SortNewest:
		clause = SortClause{Column: ColUpdatedAt, Desc: true}
	default:
		clause = SortClause{Column: ColCreatedAt, Desc: true}
	}

	if !avail.Has(clause.Column) {
		return nil
	}
	return &clause
}
