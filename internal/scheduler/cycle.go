package scheduler

import (
	"context"
	"math/rand/v2"
	"time"

	"gamedealbot/internal/deal"
	"gamedealbot/internal/dedup"
	"gamedealbot/internal/matcher"
	"gamedealbot/internal/validator"
	"gamedealbot/pkg/errors"
	"gamedealbot/services/catalog"
)

// RunDailyCycle runs collection, validation and posting once. Any stage
// producing no data aborts the cycle; the process carries on to the next
// day.
func (s *Scheduler) RunDailyCycle(ctx context.Context) error {
	log := s.log()
	start := time.Now()
	log.Info().Msg("Starting daily collection cycle")

	entries := catalog.FetchAll(ctx, s.deps.Sources)
	if len(entries) == 0 {
		return errors.NewFetch("catalog", "no catalog entries collected", nil)
	}
	log.Info().Int("entries", len(entries)).Msg("Collected catalogs")

	refs, err := s.deps.References.FetchReferencePrices(ctx)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return errors.NewFetch("steam", "no reference prices collected", nil)
	}

	candidates := matcher.Match(entries, refs)
	if len(candidates) == 0 {
		return errors.NewValidation("", "", "no catalog titles matched the reference list")
	}
	log.Info().Int("candidates", len(candidates)).Msg("Matched candidates")

	valid, err := s.validateAll(ctx, candidates, refs)
	if err != nil {
		return err
	}
	if len(valid) == 0 {
		return errors.NewValidation("", "", "no deals survived validation")
	}

	groups := dedup.Group(valid)
	if len(groups) == 0 {
		return errors.NewValidation("", "", "no deals survived dedup")
	}

	if err := s.deps.Store.SaveGroups(groups); err != nil {
		return errors.NewStore("failed to persist deal groups", err)
	}

	if err := s.shuffle(groups); err != nil {
		return err
	}

	log.Info().
		Dur("elapsed", time.Since(start)).
		Int("groups", len(groups)).
		Msg("Collection finished, starting posting batch")

	return s.postBatch(ctx)
}

// validateAll runs the concurrent validation phase over a fresh session
// pool. The pool is always torn down, whatever happens mid-batch.
func (s *Scheduler) validateAll(ctx context.Context, candidates []deal.CandidateDeal, refs []deal.ReferencePrice) ([]deal.ValidDeal, error) {
	pool, err := validator.NewSessionPool(s.deps.Sessions, s.cfg.BrowserPoolSize)
	if err != nil {
		return nil, err
	}
	defer pool.CloseAll()

	v := validator.NewValidator(validator.NewPriceIndex(refs), s.deps.Extractors)
	valid := v.ValidateAll(ctx, pool, candidates, validator.BatchOptions{
		Workers:        s.cfg.ValidationWorkers,
		SessionRetries: s.cfg.SessionRetries,
		RetryBackoff:   s.cfg.SessionRetryBackoff,
	})
	return valid, nil
}

// shuffle drops already-posted titles, permutes each group in place and
// persists the working set. Cross-group order is kept: it reflects
// source discovery order.
func (s *Scheduler) shuffle(groups []deal.DealGroup) error {
	posted, err := s.deps.Store.PostedTitles()
	if err != nil {
		return errors.NewStore("failed to load ledger", err)
	}

	postedSet := make(map[string]struct{}, len(posted))
	for _, title := range posted {
		postedSet[deal.NormalizeTitle(title)] = struct{}{}
	}

	var filtered []deal.DealGroup
	for _, group := range groups {
		var remaining []deal.ValidDeal
		for _, d := range group.Deals {
			if _, ok := postedSet[deal.NormalizeTitle(d.Title)]; ok {
				continue
			}
			remaining = append(remaining, d)
		}
		if len(remaining) == 0 {
			continue
		}
		rand.Shuffle(len(remaining), func(i, j int) {
			remaining[i], remaining[j] = remaining[j], remaining[i]
		})
		filtered = append(filtered, deal.DealGroup{Source: group.Source, Deals: remaining})
	}

	if err := s.deps.Store.SaveWorkingSet(filtered); err != nil {
		return errors.NewStore("failed to persist working set", err)
	}

	s.log().Info().
		Int("groups", len(filtered)).
		Int("already_posted", len(posted)).
		Msg("Working set shuffled")

	return nil
}
