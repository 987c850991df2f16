package validator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gamedealbot/internal/deal"

	"github.com/stretchr/testify/assert"
)

func fakeFactory(created *[]*FakeSession, pages map[string]string) SessionFactory {
	return func() (Session, error) {
		s := &FakeSession{pages: pages}
		*created = append(*created, s)
		return s, nil
	}
}

func TestSessionPoolAcquireRelease(t *testing.T) {
	var created []*FakeSession
	pool, err := NewSessionPool(fakeFactory(&created, nil), 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, pool.Size())
	assert.Equal(t, 3, pool.Available())

	s1 := pool.Acquire()
	s2 := pool.Acquire()
	s3 := pool.Acquire()
	assert.NotNil(t, s1)
	assert.NotNil(t, s2)
	assert.NotNil(t, s3)
	assert.Nil(t, pool.Acquire())

	pool.Release(s2)
	assert.Equal(t, 1, pool.Available())
	assert.Equal(t, s2, pool.Acquire())
}

func TestSessionPoolIgnoresForeignSessions(t *testing.T) {
	var created []*FakeSession
	pool, err := NewSessionPool(fakeFactory(&created, nil), 1)
	assert.NoError(t, err)

	// Releasing a session the pool never created must not grow it.
	pool.Release(&FakeSession{})
	assert.Equal(t, 1, pool.Available())
}

func TestSessionPoolAcquireWithRetryTimesOut(t *testing.T) {
	var created []*FakeSession
	pool, err := NewSessionPool(fakeFactory(&created, nil), 1)
	assert.NoError(t, err)

	held := pool.Acquire()
	assert.NotNil(t, held)

	start := time.Now()
	got := pool.AcquireWithRetry(context.Background(), 3, 10*time.Millisecond)
	assert.Nil(t, got)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestSessionPoolCloseAll(t *testing.T) {
	var created []*FakeSession
	pool, err := NewSessionPool(fakeFactory(&created, nil), 2)
	assert.NoError(t, err)

	pool.CloseAll()
	for _, s := range created {
		assert.True(t, s.closed)
	}
	assert.Equal(t, 0, pool.Size())
}

func TestSessionPoolFailsWithNoSessions(t *testing.T) {
	factory := func() (Session, error) {
		return nil, errors.New("no browser")
	}
	_, err := NewSessionPool(factory, 3)
	assert.Error(t, err)
}

func TestValidateAllReleasesEverySession(t *testing.T) {
	pages := map[string]string{}
	candidates := make([]deal.CandidateDeal, 0, 20)
	references := make([]deal.ReferencePrice, 0, 20)

	for i := 0; i < 20; i++ {
		title := fmt.Sprintf("Game %d", i)
		link := fmt.Sprintf("https://gog/%d", i)
		candidates = append(candidates, deal.CandidateDeal{Source: SourceGOG, Title: title, Link: link})
		references = append(references, ref(title, "19.99"))

		switch i % 3 {
		case 0:
			// Accepted.
			pages[link] = gogPage
		case 1:
			// Parse failure: discount element missing.
			pages[link] = "<html><body><p>sold out</p></body></html>"
		case 2:
			// Render failure: page absent from the fake.
		}
	}

	var created []*FakeSession
	pool, err := NewSessionPool(fakeFactory(&created, pages), 3)
	assert.NoError(t, err)
	defer pool.CloseAll()

	v := NewValidator(NewPriceIndex(references), DefaultExtractors())
	valid := v.ValidateAll(context.Background(), pool, candidates, BatchOptions{
		Workers:        3,
		SessionRetries: 10,
		RetryBackoff:   time.Millisecond,
	})

	// Every third candidate is accepted.
	assert.Len(t, valid, 7)

	// Release invariant: all sessions back in the pool whatever the
	// per-candidate outcome was.
	assert.Equal(t, 3, pool.Available())
}

func TestValidateAllSurvivesPanickingExtractor(t *testing.T) {
	extractors := DefaultExtractors()
	var calls atomic.Int32
	extractors["Panicky"] = func(_ context.Context, _ Session, _ *deal.CandidateDeal) (Quote, error) {
		calls.Add(1)
		panic("boom")
	}

	var created []*FakeSession
	pool, err := NewSessionPool(fakeFactory(&created, map[string]string{"https://gog/ok": gogPage}), 2)
	assert.NoError(t, err)
	defer pool.CloseAll()

	v := NewValidator(NewPriceIndex([]deal.ReferencePrice{ref("Fine Game", "19.99")}), extractors)
	valid := v.ValidateAll(context.Background(), pool, []deal.CandidateDeal{
		{Source: "Panicky", Title: "Bad Game", Link: "https://x"},
		{Source: SourceGOG, Title: "Fine Game", Link: "https://gog/ok"},
	}, BatchOptions{Workers: 2, SessionRetries: 5, RetryBackoff: time.Millisecond})

	assert.Equal(t, int32(1), calls.Load())
	assert.Len(t, valid, 1)
	assert.Equal(t, "Fine Game", valid[0].Title)
	assert.Equal(t, 2, pool.Available())
}

func TestValidateAllEmptyBatch(t *testing.T) {
	var created []*FakeSession
	pool, err := NewSessionPool(fakeFactory(&created, nil), 1)
	assert.NoError(t, err)
	defer pool.CloseAll()

	v := NewValidator(NewPriceIndex(nil), DefaultExtractors())
	valid := v.ValidateAll(context.Background(), pool, nil, BatchOptions{Workers: 3})
	assert.Empty(t, valid)
}
