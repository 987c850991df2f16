// Package dedup drops ambiguous duplicate deals and groups the survivors
// by source.
package dedup

import (
	"gamedealbot/internal/deal"
)

// Group removes every deal whose (title, source) pair occurs more than
// once, then buckets the survivors by source in first-seen order.
//
// Dropping all occurrences, not just the extras, is deliberate: two rows
// of the same source validating to the same title means the match was
// ambiguous, and picking one arbitrarily could post the wrong listing.
func Group(deals []deal.ValidDeal) []deal.DealGroup {
	counts := make(map[string]int, len(deals))
	for _, d := range deals {
		counts[deal.Key(d.Title, d.Source)]++
	}

	var unique []deal.ValidDeal
	for _, d := range deals {
		if counts[deal.Key(d.Title, d.Source)] == 1 {
			unique = append(unique, d)
		}
	}

	groupIndex := make(map[string]int)
	var groups []deal.DealGroup
	for _, d := range unique {
		i, ok := groupIndex[d.Source]
		if !ok {
			i = len(groups)
			groupIndex[d.Source] = i
			groups = append(groups, deal.DealGroup{Source: d.Source})
		}
		groups[i].Deals = append(groups[i].Deals, d)
	}

	return groups
}
