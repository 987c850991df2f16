package validator

import (
	"context"
	"strconv"
	"strings"

	"gamedealbot/helpers"
	"gamedealbot/internal/deal"
	"gamedealbot/pkg/errors"

	"github.com/shopspring/decimal"
)

// Source tags as they appear in the affiliate feeds.
const (
	SourceGOG        = "GOG.COM INT"
	SourceGamersGate = "GamersGate.com"
	SourceYuplay     = "YUPLAY"
	SourceIndieGala  = "IndieGala"
)

// Quote is the live price read from a source. ImageLink is set when the
// product page carries a better image than the feed did.
type Quote struct {
	Discount  int
	SalePrice decimal.Decimal
	ImageLink string
}

// Extractor resolves the live quote for one candidate. Each storefront
// has its own page shape; adding a source means adding one extractor.
type Extractor func(ctx context.Context, s Session, c *deal.CandidateDeal) (Quote, error)

// DefaultExtractors returns the extractor set for the known storefronts
func DefaultExtractors() map[string]Extractor {
	return map[string]Extractor{
		SourceGOG:        extractGOG,
		SourceGamersGate: extractGamersGate,
		SourceYuplay:     extractYuplay,
		SourceIndieGala:  extractIndieGala,
	}
}

func extractGOG(ctx context.Context, s Session, c *deal.CandidateDeal) (Quote, error) {
	doc, err := s.Render(ctx, c.Link)
	if err != nil {
		return Quote{}, errors.NewFetch(c.Source, "page render failed", err)
	}

	discountText := doc.Find(".product-actions-price__discount").First().Text()
	priceText := doc.Find(".product-actions-price__final-amount").First().Text()
	if discountText == "" || priceText == "" {
		return Quote{}, errors.NewParsing(c.Source, c.Title, "price elements not found", nil)
	}

	discount, err := parseDiscount(discountText)
	if err != nil {
		return Quote{}, errors.NewParsing(c.Source, c.Title, "bad discount", err)
	}
	price, err := helpers.ParsePrice(priceText)
	if err != nil {
		return Quote{}, errors.NewParsing(c.Source, c.Title, "bad sale price", err)
	}

	return Quote{Discount: discount, SalePrice: price}, nil
}

func extractGamersGate(ctx context.Context, s Session, c *deal.CandidateDeal) (Quote, error) {
	doc, err := s.Render(ctx, c.Link)
	if err != nil {
		return Quote{}, errors.NewFetch(c.Source, "page render failed", err)
	}

	discountText := doc.Find(".catalog-item--discount-value").First().Text()
	priceText := doc.Find(".catalog-item--price span").First().Text()
	if discountText == "" || priceText == "" {
		return Quote{}, errors.NewParsing(c.Source, c.Title, "price elements not found", nil)
	}

	discount, err := parseDiscount(discountText)
	if err != nil {
		return Quote{}, errors.NewParsing(c.Source, c.Title, "bad discount", err)
	}
	price, err := helpers.ParsePrice(priceText)
	if err != nil {
		return Quote{}, errors.NewParsing(c.Source, c.Title, "bad sale price", err)
	}

	// The feed image is a placeholder; the product page has the real one.
	image, _ := doc.Find("div.catalog-item--image img").First().Attr("src")

	return Quote{Discount: discount, SalePrice: price, ImageLink: image}, nil
}

func extractYuplay(ctx context.Context, s Session, c *deal.CandidateDeal) (Quote, error) {
	doc, err := s.Render(ctx, c.Link)
	if err != nil {
		return Quote{}, errors.NewFetch(c.Source, "page render failed", err)
	}

	container := doc.Find(".product-second-container").First()
	if container.Length() == 0 {
		return Quote{}, errors.NewParsing(c.Source, c.Title, "product container not found", nil)
	}

	discountText := container.Find(".catalog-item-discount-label span").First().Text()
	priceText := container.Find(".catalog-item-sale-price").First().Text()
	if discountText == "" || priceText == "" {
		return Quote{}, errors.NewParsing(c.Source, c.Title, "price elements not found", nil)
	}

	discount, err := parseDiscount(discountText)
	if err != nil {
		return Quote{}, errors.NewParsing(c.Source, c.Title, "bad discount", err)
	}
	if discount <= 0 {
		return Quote{}, errors.NewValidation(c.Source, c.Title, "no active discount")
	}
	price, err := helpers.ParsePrice(priceText)
	if err != nil {
		return Quote{}, errors.NewParsing(c.Source, c.Title, "bad sale price", err)
	}

	return Quote{Discount: discount, SalePrice: price}, nil
}

// extractIndieGala validates from the data the feed already carried;
// the store exposes sale prices in its listing so no page visit is needed.
func extractIndieGala(_ context.Context, _ Session, c *deal.CandidateDeal) (Quote, error) {
	sale := c.SalePrice
	if sale.IsZero() {
		sale = c.ListPrice
	}
	if sale.IsZero() {
		return Quote{}, errors.NewValidation(c.Source, c.Title, "no price in feed")
	}

	discount := c.Discount
	if discount == 0 {
		discount = helpers.DiscountPercent(c.ListPrice, sale)
	}

	return Quote{Discount: discount, SalePrice: sale}, nil
}

// parseDiscount reads percentages like "-55%" or "55" from page text
func parseDiscount(text string) (int, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "%", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.TrimSpace(cleaned)
	return strconv.Atoi(cleaned)
}
