package catalog

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"gamedealbot/helpers"
	"gamedealbot/internal/deal"
	"gamedealbot/pkg/errors"
)

// Feed column layout, as produced by the affiliate network export:
// source, program, title, link, image link, availability, price, sale price.
const (
	feedColSource = iota
	feedColProgram
	feedColTitle
	feedColLink
	feedColImage
	feedColAvailability
	feedColPrice
	feedColSalePrice
	feedColCount
)

// FeedSource reads catalog rows from an aggregated affiliate CSV feed.
// The feed covers the storefronts whose products arrive as flat files
// rather than scrapes.
type FeedSource struct {
	path string
}

// NewFeedSource creates a feed source reading the given CSV file
func NewFeedSource(path string) *FeedSource {
	return &FeedSource{path: path}
}

// Name returns the source name for logging
func (f *FeedSource) Name() string {
	return "affiliate_feed"
}

// FetchCatalog parses the feed file. Rows with missing titles or
// unparseable prices are skipped, not fatal; feeds routinely carry a few
// malformed rows.
func (f *FeedSource) FetchCatalog(ctx context.Context) ([]deal.CatalogEntry, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, errors.NewFetch(f.Name(), "feed file not readable", err)
	}
	defer file.Close()

	return f.parse(ctx, file)
}

func (f *FeedSource) parse(ctx context.Context, r io.Reader) ([]deal.CatalogEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var entries []deal.CatalogEntry
	for {
		if err := ctx.Err(); err != nil {
			return entries, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entries, errors.NewParsing(f.Name(), "", "feed row unreadable", err)
		}
		if len(record) < feedColCount {
			continue
		}

		title := strings.TrimSpace(record[feedColTitle])
		if title == "" {
			continue
		}

		listPrice, err := helpers.ParsePrice(record[feedColPrice])
		if err != nil {
			continue
		}
		// An empty sale price column means the row is not on sale.
		salePrice, err := helpers.ParsePrice(record[feedColSalePrice])
		if err != nil {
			continue
		}

		entry := deal.CatalogEntry{
			Source:       strings.TrimSpace(record[feedColSource]),
			Title:        title,
			Link:         strings.TrimSpace(record[feedColLink]),
			ImageLink:    strings.TrimSpace(record[feedColImage]),
			Availability: strings.TrimSpace(record[feedColAvailability]),
			ListPrice:    listPrice,
			SalePrice:    salePrice,
		}
		if !salePrice.IsZero() {
			entry.Discount = helpers.DiscountPercent(listPrice, salePrice)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
