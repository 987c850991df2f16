package store

import (
	"encoding/json"
	"sync"

	"gamedealbot/internal/deal"
)

// MemoryStore implements Store in memory. It backs tests and local runs
// without Redis; cap enforcement matches the Redis implementation.
type MemoryStore struct {
	mu         sync.Mutex
	posted     []string
	workingSet []byte
	groups     []byte
	limit      int
}

// NewMemoryStore creates an in-memory store with the given ledger cap
func NewMemoryStore(ledgerLimit int) *MemoryStore {
	return &MemoryStore{limit: ledgerLimit}
}

// PostedTitles returns the ledger contents, oldest first
func (s *MemoryStore) PostedTitles() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.posted))
	copy(out, s.posted)
	return out, nil
}

// IsPosted reports whether a title is in the ledger
func (s *MemoryStore) IsPosted(title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := deal.NormalizeTitle(title)
	for _, t := range s.posted {
		if deal.NormalizeTitle(t) == want {
			return true, nil
		}
	}
	return false, nil
}

// AppendPosted appends a title, evicting the oldest beyond the cap
func (s *MemoryStore) AppendPosted(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posted = append(s.posted, title)
	if len(s.posted) > s.limit {
		s.posted = s.posted[len(s.posted)-s.limit:]
	}
	return nil
}

// LoadWorkingSet returns the current shuffled deal groups
func (s *MemoryStore) LoadWorkingSet() ([]deal.DealGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeGroups(s.workingSet)
}

// SaveWorkingSet replaces the shuffled deal groups
func (s *MemoryStore) SaveWorkingSet(groups []deal.DealGroup) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workingSet = data
	return nil
}

// LoadGroups returns the last validated deal groups
func (s *MemoryStore) LoadGroups() ([]deal.DealGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeGroups(s.groups)
}

// SaveGroups replaces the validated deal groups
func (s *MemoryStore) SaveGroups(groups []deal.DealGroup) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = data
	return nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}

// decodeGroups round-trips through JSON so callers get their own copy
// and mutations never leak back into the store.
func decodeGroups(data []byte) ([]deal.DealGroup, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var groups []deal.DealGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
