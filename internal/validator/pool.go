package validator

import (
	"context"
	"sync"
	"time"

	"gamedealbot/internal/deal"
	"gamedealbot/logger"
	"gamedealbot/pkg/errors"
)

// SessionPool holds long-lived sessions reused across candidates. Access
// is serialized by a mutex; a session is checked out by exactly one
// worker at a time and returned on every exit path.
type SessionPool struct {
	mu        sync.Mutex
	sessions  []Session
	available []Session
}

// NewSessionPool creates size sessions up front. Failing to create any
// session at all is fatal to the batch; a partially filled pool is
// logged and used as-is.
func NewSessionPool(factory SessionFactory, size int) (*SessionPool, error) {
	pool := &SessionPool{}
	log := logger.ForValidator()

	for i := 0; i < size; i++ {
		session, err := factory()
		if err != nil {
			log.Warn().Err(err).Int("session", i).Msg("Failed to create session")
			continue
		}
		pool.sessions = append(pool.sessions, session)
		pool.available = append(pool.available, session)
	}

	if len(pool.sessions) == 0 {
		return nil, errors.NewSession("", "could not create any session", nil)
	}
	return pool, nil
}

// Acquire returns a free session or nil when the pool is exhausted
func (p *SessionPool) Acquire() Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.available) == 0 {
		return nil
	}
	session := p.available[len(p.available)-1]
	p.available = p.available[:len(p.available)-1]
	return session
}

// AcquireWithRetry polls for a free session with a short backoff. Returns
// nil when no session frees up within the attempt budget.
func (p *SessionPool) AcquireWithRetry(ctx context.Context, attempts int, backoff time.Duration) Session {
	for i := 0; i < attempts; i++ {
		if session := p.Acquire(); session != nil {
			return session
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
	}
	return nil
}

// Release returns a session to the pool. Sessions not created by this
// pool are ignored.
func (p *SessionPool) Release(session Session) {
	if session == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.sessions {
		if s == session {
			p.available = append(p.available, session)
			return
		}
	}
}

// Available returns the number of free sessions
func (p *SessionPool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.available)
}

// Size returns the total number of sessions in the pool
func (p *SessionPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

// CloseAll tears down every session. Called once per batch, on every
// exit path.
func (p *SessionPool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	log := logger.ForValidator()
	for _, session := range p.sessions {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close session")
		}
	}
	p.sessions = nil
	p.available = nil
}

// BatchOptions bounds the validation batch
type BatchOptions struct {
	Workers        int
	SessionRetries int
	RetryBackoff   time.Duration
}

// ValidateAll validates candidates concurrently with a fixed worker group
// over the session pool. Result order is completion order; downstream
// grouping does not depend on it. Individual failures are logged and
// dropped, never propagated.
func (v *Validator) ValidateAll(ctx context.Context, pool *SessionPool, candidates []deal.CandidateDeal, opts BatchOptions) []deal.ValidDeal {
	log := logger.ForValidator()

	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.SessionRetries <= 0 {
		opts.SessionRetries = 10
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 100 * time.Millisecond
	}

	work := make(chan deal.CandidateDeal, len(candidates))
	results := make(chan deal.ValidDeal, len(candidates))

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for candidate := range work {
				v.validateOne(ctx, pool, candidate, opts, results, log)
			}
		}()
	}

	for _, candidate := range candidates {
		work <- candidate
	}
	close(work)

	wg.Wait()
	close(results)

	valid := make([]deal.ValidDeal, 0, len(candidates))
	for d := range results {
		valid = append(valid, d)
	}

	log.Info().
		Int("candidates", len(candidates)).
		Int("valid", len(valid)).
		Msg("Validation batch finished")

	return valid
}

func (v *Validator) validateOne(ctx context.Context, pool *SessionPool, candidate deal.CandidateDeal, opts BatchOptions, results chan<- deal.ValidDeal, log *logger.Logger) {
	session := pool.AcquireWithRetry(ctx, opts.SessionRetries, opts.RetryBackoff)
	if session == nil {
		log.Warn().
			Str("title", candidate.Title).
			Str("source", candidate.Source).
			Msg("No free session, dropping candidate")
		return
	}
	defer pool.Release(session)

	// A panicking extractor must not take the batch down with it.
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("title", candidate.Title).
				Str("source", candidate.Source).
				Msg("Extractor panicked")
		}
	}()

	validated, err := v.Validate(ctx, session, &candidate)
	if err != nil {
		log.Debug().
			Err(err).
			Str("title", candidate.Title).
			Str("source", candidate.Source).
			Msg("Candidate rejected")
		return
	}

	results <- *validated
}
