package deal

import "github.com/shopspring/decimal"

// CatalogEntry represents one product row fetched from an affiliate source.
// Entries are immutable once read from the source.
type CatalogEntry struct {
	Source       string          `json:"source"`
	Title        string          `json:"title"`
	Link         string          `json:"link"`
	ImageLink    string          `json:"image_link,omitempty"`
	Availability string          `json:"availability"`
	ListPrice    decimal.Decimal `json:"list_price"`
	SalePrice    decimal.Decimal `json:"sale_price,omitempty"`
	Discount     int             `json:"discount,omitempty"`
}

// InStock reports whether the entry's availability flag indicates stock.
func (e CatalogEntry) InStock() bool {
	return e.Availability == "in stock" || e.Availability == "in_stock"
}

// ReferencePrice is one row of the topseller reference list. A zero price
// means the game is free or delisted and can never anchor a deal.
type ReferencePrice struct {
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// Free reports whether the reference price cannot anchor a deal.
func (r ReferencePrice) Free() bool {
	return r.Price.IsZero() || r.Price.IsNegative()
}

// CandidateDeal is a catalog entry whose normalized title matched a
// reference title. The validator attaches Discount and SalePrice when the
// live price clears the bar; candidates that fail validation are discarded.
type CandidateDeal struct {
	Source    string `json:"source"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	ImageLink string `json:"image_link"`

	// Carried list data for sources validated without a live fetch.
	ListPrice decimal.Decimal `json:"list_price,omitempty"`
	SalePrice decimal.Decimal `json:"sale_price,omitempty"`
	Discount  int             `json:"discount,omitempty"`
}

// ValidDeal is a candidate with a verified discount and formatted sale
// price. Invariant: the live sale price was strictly below a positive
// reference price at validation time.
type ValidDeal struct {
	Source    string `json:"source"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	ImageLink string `json:"image_link"`
	Discount  int    `json:"discount"`
	SalePrice string `json:"salePrice"`
}

// DealGroup holds the valid deals of one source, in validation order until
// the scheduler shuffles them.
type DealGroup struct {
	Source string      `json:"source"`
	Deals  []ValidDeal `json:"deals"`
}

// Key identifies a deal for dedup and ledger checks.
func Key(title, source string) string {
	return NormalizeTitle(title) + "_" + source
}
