package helpers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"$19.99", "19.99"},
		{"19.99 USD", "19.99"},
		{"$1,299.00", "1299"},
		{" $9.99 ", "9.99"},
		{"Free", "0"},
		{"N/A", "0"},
		{"", "0"},
	}

	for _, tc := range cases {
		price, err := ParsePrice(tc.input)
		assert.NoError(t, err, tc.input)
		assert.True(t, price.Equal(decimal.RequireFromString(tc.expected)),
			"%s parsed to %s, expected %s", tc.input, price, tc.expected)
	}
}

func TestParsePriceInvalid(t *testing.T) {
	_, err := ParsePrice("not a price")
	assert.Error(t, err)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$9.99", FormatPrice(decimal.RequireFromString("9.99")))
	assert.Equal(t, "$10.00", FormatPrice(decimal.NewFromInt(10)))
	assert.Equal(t, "$0.50", FormatPrice(decimal.RequireFromString("0.5")))
}

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 50, DiscountPercent(decimal.NewFromInt(20), decimal.NewFromInt(10)))
	assert.Equal(t, 33, DiscountPercent(decimal.NewFromInt(30), decimal.NewFromInt(20)))
	assert.Equal(t, 0, DiscountPercent(decimal.Zero, decimal.NewFromInt(10)))
	assert.Equal(t, 0, DiscountPercent(decimal.NewFromInt(10), decimal.NewFromInt(10)))
}
