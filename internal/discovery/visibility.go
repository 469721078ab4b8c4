package discovery

import (
	"strings"

	"storefront-discovery/internal/domain"
)

// FilterVisible restricts products to those a shopper may see: a nil/empty
// status counts as visible, as does any status in the public allow-list.
// When the status column degraded away entirely, every row passes; the
// trade-off is availability over strict status enforcement.
func FilterVisible(products []domain.Product, avail ColumnSet) []domain.Product {
	if !avail.Has(ColStatus) {
		return products
	}

	public := make(map[string]struct{}, 3)
	for _, s := range PublicStatuses() {
		public[s] = struct{}{}
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Status == nil || strings.TrimSpace(*p.Status) == "" {
			out = append(out, p)
			continue
		}
		if _, ok := public[strings.ToLower(*p.Status)]; ok {
			out = append(out, p)
		}
	}
	return out
}
