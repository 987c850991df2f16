package matcher

import (
	"testing"

	"gamedealbot/internal/deal"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ref(title string, price string) deal.ReferencePrice {
	return deal.ReferencePrice{Title: title, Price: decimal.RequireFromString(price)}
}

func TestMatchEmitsInStockEntries(t *testing.T) {
	catalog := []deal.CatalogEntry{
		{Source: "X", Title: "Foo Bar", Link: "https://x/foo", ImageLink: "https://x/foo.jpg", Availability: "in stock"},
	}
	refs := []deal.ReferencePrice{ref("Foo Bar", "19.99")}

	candidates := Match(catalog, refs)

	assert.Len(t, candidates, 1)
	assert.Equal(t, "X", candidates[0].Source)
	assert.Equal(t, "Foo Bar", candidates[0].Title)
	assert.Equal(t, "https://x/foo", candidates[0].Link)
	assert.Equal(t, "https://x/foo.jpg", candidates[0].ImageLink)
}

func TestMatchSkipsOutOfStock(t *testing.T) {
	catalog := []deal.CatalogEntry{
		{Source: "X", Title: "Foo Bar", Availability: "out of stock"},
	}

	candidates := Match(catalog, []deal.ReferencePrice{ref("Foo Bar", "19.99")})

	assert.Empty(t, candidates)
}

func TestMatchNormalizedTitles(t *testing.T) {
	catalog := []deal.CatalogEntry{
		{Source: "GOG.COM INT", Title: "Cronos: The New Dawn - Deluxe Edition", Availability: "in_stock"},
	}
	refs := []deal.ReferencePrice{ref("Cronos The New Dawn Deluxe Edition", "59.99")}

	candidates := Match(catalog, refs)

	assert.Len(t, candidates, 1)
	// Original catalog title is preserved on the candidate.
	assert.Equal(t, "Cronos: The New Dawn - Deluxe Edition", candidates[0].Title)
}

func TestMatchSameSourceCollisionsAllEmitted(t *testing.T) {
	catalog := []deal.CatalogEntry{
		{Source: "X", Title: "Foo Bar", Link: "https://x/foo-1", Availability: "in stock"},
		{Source: "X", Title: "Foo: Bar", Link: "https://x/foo-2", Availability: "in stock"},
	}

	candidates := Match(catalog, []deal.ReferencePrice{ref("Foo Bar", "9.99")})

	// Both rows survive matching; dedup resolves the ambiguity later.
	assert.Len(t, candidates, 2)
}

func TestMatchUnmatchedTitles(t *testing.T) {
	catalog := []deal.CatalogEntry{
		{Source: "X", Title: "Completely Different", Availability: "in stock"},
	}

	candidates := Match(catalog, []deal.ReferencePrice{ref("Foo Bar", "9.99")})

	assert.Empty(t, candidates)
}
