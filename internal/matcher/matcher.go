// Package matcher intersects affiliate catalogs with the topseller
// reference list by normalized title.
package matcher

import (
	"gamedealbot/internal/deal"
)

// Match returns a candidate for every in-stock catalog entry whose
// normalized title appears in the reference list. Multiple entries from
// the same source matching one reference title are all emitted; the dedup
// stage drops ambiguous pairs later.
func Match(catalog []deal.CatalogEntry, refs []deal.ReferencePrice) []deal.CandidateDeal {
	index := make(map[string][]int, len(catalog))
	for i, entry := range catalog {
		key := deal.NormalizeTitle(entry.Title)
		if key == "" {
			continue
		}
		index[key] = append(index[key], i)
	}

	var candidates []deal.CandidateDeal
	for _, ref := range refs {
		key := deal.NormalizeTitle(ref.Title)
		for _, i := range index[key] {
			entry := catalog[i]
			if !entry.InStock() {
				continue
			}
			candidates = append(candidates, deal.CandidateDeal{
				Source:    entry.Source,
				Title:     entry.Title,
				Link:      entry.Link,
				ImageLink: entry.ImageLink,
				ListPrice: entry.ListPrice,
				SalePrice: entry.SalePrice,
				Discount:  entry.Discount,
			})
		}
	}

	return candidates
}
