package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var _ Source = (*FeedSource)(nil)

const feedCSV = `GOG.COM INT,gog-program,Foo Bar,https://gog/foo,https://gog/foo.jpg,in stock,19.99 USD,9.99 USD
YUPLAY,yuplay-program,Bar Quest,https://yuplay/bar,https://yuplay/bar.jpg,in_stock,12.99 USD,
GOG.COM INT,gog-program,Out Of Stock Game,https://gog/oos,https://gog/oos.jpg,out of stock,29.99 USD,
GOG.COM INT,gog-program,,https://gog/notitle,https://gog/notitle.jpg,in stock,9.99 USD,
GOG.COM INT,gog-program,Bad Price Game,https://gog/bad,https://gog/bad.jpg,in stock,not-a-price,
short,row
`

func TestFeedSourceParse(t *testing.T) {
	f := NewFeedSource("unused")

	entries, err := f.parse(context.Background(), strings.NewReader(feedCSV))
	assert.NoError(t, err)

	// Title-less, bad-price and short rows are skipped; the out-of-stock
	// row is kept (the matcher filters availability).
	assert.Len(t, entries, 3)

	foo := entries[0]
	assert.Equal(t, "GOG.COM INT", foo.Source)
	assert.Equal(t, "Foo Bar", foo.Title)
	assert.True(t, foo.InStock())
	assert.True(t, foo.ListPrice.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, foo.SalePrice.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 50, foo.Discount)

	bar := entries[1]
	assert.Equal(t, "YUPLAY", bar.Source)
	assert.True(t, bar.SalePrice.IsZero())
	assert.Equal(t, 0, bar.Discount)

	oos := entries[2]
	assert.False(t, oos.InStock())
}

func TestFeedSourceMissingFile(t *testing.T) {
	f := NewFeedSource("/does/not/exist.csv")
	_, err := f.FetchCatalog(context.Background())
	assert.Error(t, err)
}
