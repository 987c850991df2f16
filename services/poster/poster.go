// Package poster renders deal announcements and hands them to the social
// posting sink.
package poster

import (
	"context"
	"fmt"

	"gamedealbot/internal/deal"
)

// Poster is the posting sink. Implementations report failure through the
// error return and never panic past this boundary.
type Poster interface {
	// Post publishes one deal announcement with its image.
	Post(ctx context.Context, d *deal.ValidDeal) error

	// Close releases the sink connection.
	Close() error
}

// DisplaySource maps feed source tags to the short names posts use
func DisplaySource(source string) string {
	switch source {
	case "GOG.COM INT":
		return "GOG"
	case "GamersGate.com":
		return "GamersGate"
	default:
		return source
	}
}

// RenderMessage produces the announcement text for a deal
func RenderMessage(d *deal.ValidDeal) string {
	source := DisplaySource(d.Source)
	return fmt.Sprintf("[%s] %s - %d%% OFF!\nNow %s\n%s\n\n#PCGaming #GameDeals #%s",
		source, d.Title, d.Discount, d.SalePrice, d.Link, source)
}
