package helpers

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice converts a storefront price string to a decimal. Currency
// symbols, thousands separators and unit suffixes are stripped first.
// "Free", "N/A" and empty strings parse to zero.
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)

	switch strings.ToLower(cleaned) {
	case "", "free", "n/a", "free to play":
		return decimal.Zero, nil
	}

	replacer := strings.NewReplacer(
		"$", "",
		"€", "",
		"£", "",
		"USD", "",
		",", "",
		" ", "",
	)
	cleaned = replacer.Replace(cleaned)

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable price %q: %w", raw, err)
	}
	return price, nil
}

// FormatPrice renders a price the way posts display it: dollar sign,
// two decimals.
func FormatPrice(price decimal.Decimal) string {
	return "$" + price.StringFixed(2)
}

// DiscountPercent derives a rounded discount percentage from list and
// sale prices. Returns 0 when the list price cannot anchor a percentage.
func DiscountPercent(list, sale decimal.Decimal) int {
	if list.IsZero() || list.IsNegative() {
		return 0
	}
	pct := list.Sub(sale).Div(list).Mul(decimal.NewFromInt(100))
	return int(pct.Round(0).IntPart())
}
