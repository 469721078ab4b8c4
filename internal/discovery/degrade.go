package discovery

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"storefront-discovery/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ProductStore executes product query descriptors against the catalog.
type ProductStore interface {
	QueryProducts(ctx context.Context, q QueryDescriptor) ([]domain.Product, error)
}

// maxAttempts bounds the degradation ladder: ideal, reduced, minimal.
const maxAttempts = 3

const pgUndefinedColumn = "42703"

var undefinedColumnRe = regexp.MustCompile(`column "?(?:\w+"?\."?)?([A-Za-z_][A-Za-z0-9_]*)"? does not exist`)

// UndefinedColumn classifies err. It reports whether err is an
// undefined-column schema mismatch, and if so the offending column name when
// it can be extracted (empty string otherwise). Classification prefers the
// structured Postgres error code and falls back to the message pattern for
// stores that surface plain text.
func UndefinedColumn(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUndefinedColumn {
			return "", false
		}
		if m := undefinedColumnRe.FindStringSubmatch(pgErr.Message); m != nil {
			return m[1], true
		}
		return "", true
	}

	if m := undefinedColumnRe.FindStringSubmatch(err.Error()); m != nil {
		return m[1], true
	}
	return "", false
}

// FetchResult is the row set of the first successful attempt plus the
// column set that attempt succeeded with. Downstream stages consult
// Available instead of rediscovering schema failures on their own.
type FetchResult struct {
	Products  []domain.Product
	Available ColumnSet
	Attempts  int
}

// Ladder runs the schema degradation ladder against a product store.
type Ladder struct {
	store ProductStore
	log   *zap.Logger
}

// NewLadder creates a Ladder over the given store.
func NewLadder(store ProductStore, log *zap.Logger) *Ladder {
	return &Ladder{store: store, log: log}
}

// Fetch executes the filter, retrying with a narrower projection on each
// undefined-column error. When the offending column can be extracted only
// that column (and anything referencing it) is dropped; otherwise the
// attempt falls back to the minimal catalog. Any non-schema error, or a
// schema error on the final attempt, is fatal.
func (l *Ladder) Fetch(ctx context.Context, f domain.DiscoveryFilter) (*FetchResult, error) {
	avail := NewColumnSet(IdealCatalog())

	for attempt := 1; ; attempt++ {
		q := BuildQuery(f, avail)

		products, err := l.store.QueryProducts(ctx, q)
		if err == nil {
			return &FetchResult{Products: products, Available: avail, Attempts: attempt}, nil
		}

		col, schema := UndefinedColumn(err)
		if !schema {
			return nil, err
		}
		if attempt == maxAttempts {
			return nil, fmt.Errorf("schema degradation exhausted after %d attempts: %w", attempt, err)
		}

		if col != "" && avail.Has(Column(col)) {
			l.log.Warn("Product column missing, narrowing projection",
				zap.String("column", col),
				zap.Int("attempt", attempt),
			)
			avail = avail.Without(Column(col))
		} else {
			l.log.Warn("Could not identify missing column, falling back to minimal field set",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			avail = NewColumnSet(MinimalCatalog())
		}
	}
}
