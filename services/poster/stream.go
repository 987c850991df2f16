package poster

import (
	"context"
	"encoding/base64"

	"gamedealbot/helpers"
	"gamedealbot/internal/deal"
	"gamedealbot/logger"
	"gamedealbot/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// StreamPoster publishes rendered announcements to a Redis stream consumed
// by the social relay. The deal image is downloaded and base64 encoded
// into the entry so the relay needs no further fetches.
type StreamPoster struct {
	client *redis.Client
	stream string
	maxLen int
}

// NewStreamPoster creates a Redis stream poster
func NewStreamPoster(addr string, db int, stream string, maxLen int) *StreamPoster {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &StreamPoster{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

// Post publishes one deal announcement with its image
func (p *StreamPoster) Post(ctx context.Context, d *deal.ValidDeal) error {
	log := logger.ForPoster()

	image, err := helpers.FetchSimply(d.ImageLink)
	if err != nil {
		return errors.NewPosting(d.Source, d.Title, "image download failed", err)
	}

	message := RenderMessage(d)

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: int64(p.maxLen),
		Approx: true,
		Values: map[string]interface{}{
			"message": message,
			"image":   base64.StdEncoding.EncodeToString(image),
			"title":   d.Title,
			"source":  d.Source,
		},
	}).Err()
	if err != nil {
		return errors.NewPosting(d.Source, d.Title, "stream publish failed", err)
	}

	log.Info().
		Str("title", d.Title).
		Str("source", d.Source).
		Int("discount", d.Discount).
		Msg("Posted deal")

	return nil
}

// Close closes the Redis connection
func (p *StreamPoster) Close() error {
	return p.client.Close()
}
