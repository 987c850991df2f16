// Package catalog provides the upstream data sources: affiliate product
// catalogs and the topseller reference price list.
package catalog

import (
	"context"

	"gamedealbot/internal/deal"
	"gamedealbot/logger"
)

// Source yields the catalog rows of one affiliate storefront. A failing
// source returns an error to its caller; the pipeline treats that as an
// empty catalog for the day, never as a process failure.
type Source interface {
	// FetchCatalog returns the current product rows.
	FetchCatalog(ctx context.Context) ([]deal.CatalogEntry, error)

	// Name returns the source name for logging.
	Name() string
}

// ReferenceSource yields the reference price list, refreshed daily
type ReferenceSource interface {
	// FetchReferencePrices returns the current topseller list.
	FetchReferencePrices(ctx context.Context) ([]deal.ReferencePrice, error)
}

// FetchAll collects the catalogs of every source, skipping failures
func FetchAll(ctx context.Context, sources []Source) []deal.CatalogEntry {
	var entries []deal.CatalogEntry
	for _, source := range sources {
		rows, err := source.FetchCatalog(ctx)
		if err != nil {
			// Partial data beats no data; the failing source is
			// simply absent from today's batch.
			logger.ForSource(source.Name()).Warn().Err(err).Msg("Catalog fetch failed")
			continue
		}
		entries = append(entries, rows...)
	}
	return entries
}
