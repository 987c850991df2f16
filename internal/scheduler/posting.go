package scheduler

import (
	"context"
	"math/rand/v2"

	"gamedealbot/internal/deal"
	"gamedealbot/logger"
	"gamedealbot/pkg/errors"
)

// maxPostFailures caps consecutive sink failures before the batch gives
// up. Failed deals stay in the working set for the next cycle.
const maxPostFailures = 3

// postBatch posts deals until the daily quota is met, no deals remain, or
// the selection attempt budget runs out. Each iteration reloads the
// working set so out-of-band changes are respected.
func (s *Scheduler) postBatch(ctx context.Context) error {
	log := s.log()
	posted := 0
	failures := 0

	for posted < s.cfg.PostsPerDay {
		if err := ctx.Err(); err != nil {
			return err
		}

		groups, err := s.deps.Store.LoadWorkingSet()
		if err != nil {
			return errors.NewStore("failed to load working set", err)
		}

		selected, remaining, err := s.selectUnposted(groups)
		if err != nil {
			return err
		}
		if selected == nil {
			log.Warn().Int("posted", posted).Msg("No more deals to post")
			return nil
		}

		if err := s.deps.Poster.Post(ctx, selected); err != nil {
			// The removal was not persisted, so the deal stays in
			// the working set for a later pass.
			failures++
			log.Error().
				Err(err).
				Str("title", selected.Title).
				Str("source", selected.Source).
				Int("failures", failures).
				Msg("Posting failed")
			if failures >= maxPostFailures {
				return errors.NewPosting(selected.Source, selected.Title, "posting sink failing repeatedly", err)
			}
			continue
		}
		failures = 0

		// Persistence must be confirmed before the next post, or a
		// restart could post the same deal twice.
		if err := s.deps.Store.AppendPosted(selected.Title); err != nil {
			return errors.NewStore("failed to append to ledger", err)
		}
		if err := s.deps.Store.SaveWorkingSet(remaining); err != nil {
			return errors.NewStore("failed to persist working set", err)
		}

		posted++
		log.Info().
			Str("title", selected.Title).
			Str("source", selected.Source).
			Int("posted", posted).
			Int("quota", s.cfg.PostsPerDay).
			Msg("Posted deal")

		if posted < s.cfg.PostsPerDay {
			if !s.sleep(ctx, s.cfg.HoursBetweenPosts) {
				return ctx.Err()
			}
		}
	}

	log.Info().Int("posted", posted).Msg("Posting batch completed")
	return nil
}

// selectUnposted picks one postable deal: a uniformly random group, its
// first element. Ledger hits and sub-threshold discounts are removed and
// selection retries, bounded by the attempt budget. The returned slice
// reflects all removals including the selected element; it is only
// persisted by the caller after a confirmed post.
func (s *Scheduler) selectUnposted(groups []deal.DealGroup) (*deal.ValidDeal, []deal.DealGroup, error) {
	log := s.log()

	for attempts := 0; attempts < s.cfg.SelectionAttempts; {
		if len(groups) == 0 {
			return nil, groups, nil
		}

		g := rand.IntN(len(groups))
		if len(groups[g].Deals) == 0 {
			groups = append(groups[:g], groups[g+1:]...)
			continue
		}

		candidate := groups[g].Deals[0]

		isPosted, err := s.deps.Store.IsPosted(candidate.Title)
		if err != nil {
			return nil, groups, errors.NewStore("ledger lookup failed", err)
		}

		if isPosted || candidate.Discount <= s.cfg.MinDiscount {
			groups[g].Deals = groups[g].Deals[1:]
			if len(groups[g].Deals) == 0 {
				groups = append(groups[:g], groups[g+1:]...)
			}
			attempts++
			continue
		}

		groups[g].Deals = groups[g].Deals[1:]
		if len(groups[g].Deals) == 0 {
			groups = append(groups[:g], groups[g+1:]...)
		}
		return &candidate, groups, nil
	}

	log.Warn().Int("max_attempts", s.cfg.SelectionAttempts).Msg("Selection attempts exhausted")
	return nil, groups, nil
}

func (s *Scheduler) log() *logger.Logger {
	return logger.ForScheduler()
}
