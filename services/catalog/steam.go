package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"gamedealbot/helpers"
	"gamedealbot/internal/deal"
	"gamedealbot/logger"
	"gamedealbot/pkg/errors"
	"gamedealbot/services/cache"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

const (
	steamSearchURL = "https://store.steampowered.com/search/"
	steamBatchSize = 100
	steamBlockTime = 500 * time.Second
)

// SteamTopSellers fetches the global topseller list from the Steam search
// endpoint. The endpoint returns a JSON envelope whose results_html field
// holds the result rows; rows are paged 100 at a time.
type SteamTopSellers struct {
	guard    *cache.RateGuard
	count    int
	region   string
	language string
	fetch    func(url string) (io.Reader, error)
}

// NewSteamTopSellers creates a topseller source for the given region
func NewSteamTopSellers(guard *cache.RateGuard, count int, region, language string) *SteamTopSellers {
	return &SteamTopSellers{
		guard:    guard,
		count:    count,
		region:   region,
		language: language,
		fetch:    helpers.FetchWithRandomHeaders,
	}
}

// FetchReferencePrices returns the current topseller list. A partially
// fetched list is returned when a later page fails; callers treat an
// empty list as an aborted cycle.
func (s *SteamTopSellers) FetchReferencePrices(ctx context.Context) ([]deal.ReferencePrice, error) {
	log := logger.ForSource("steam")

	if s.guard.Blocked("steam") {
		return nil, errors.NewFetch("steam", "rate limited, skipping fetch", nil)
	}

	var refs []deal.ReferencePrice
	for start := 0; start < s.count; start += steamBatchSize {
		if err := ctx.Err(); err != nil {
			return refs, err
		}

		batch, err := s.fetchBatch(start)
		if err != nil {
			if strings.Contains(err.Error(), "rate limited") {
				s.guard.Block("steam", steamBlockTime)
			}
			log.Warn().Err(err).Int("start", start).Msg("Topseller page fetch failed")
			break
		}
		if len(batch) == 0 {
			break
		}
		refs = append(refs, batch...)
	}

	log.Info().Int("count", len(refs)).Msg("Fetched topsellers")
	return refs, nil
}

func (s *SteamTopSellers) fetchBatch(start int) ([]deal.ReferencePrice, error) {
	params := url.Values{}
	params.Set("filter", "globaltopsellers")
	params.Set("count", fmt.Sprintf("%d", steamBatchSize))
	params.Set("start", fmt.Sprintf("%d", start))
	params.Set("cc", s.region)
	params.Set("l", s.language)
	params.Set("category1", "998") // games only, no DLC or software
	params.Set("hidef2p", "1")
	params.Set("infinite", "1")
	params.Set("force_infinite", "1")

	body, err := s.fetch(steamSearchURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		ResultsHTML string `json:"results_html"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.NewParsing("steam", "", "bad search envelope", err)
	}
	if envelope.ResultsHTML == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(envelope.ResultsHTML))
	if err != nil {
		return nil, errors.NewParsing("steam", "", "bad results html", err)
	}

	var refs []deal.ReferencePrice
	doc.Find(".search_result_row").Each(func(_ int, row *goquery.Selection) {
		title := strings.TrimSpace(row.Find(".title").First().Text())
		if title == "" {
			return
		}

		priceText := strings.TrimSpace(row.Find(".discount_final_price").First().Text())
		price, err := helpers.ParsePrice(priceText)
		if err != nil {
			// Rows with unreadable prices become zero-price entries;
			// validation later rejects anything anchored on them.
			price = decimal.Zero
		}

		refs = append(refs, deal.ReferencePrice{Title: title, Price: price})
	})

	return refs, nil
}
