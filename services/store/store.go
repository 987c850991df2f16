// Package store persists the posting state: the ledger of already-posted
// titles and the working set of deals awaiting posting.
package store

import "gamedealbot/internal/deal"

// Store is the persistence contract for the posting scheduler. The ledger
// is a bounded FIFO: appends past the cap evict the oldest titles, so
// "already posted" is a sliding window, not permanent memory.
//
// The working set is the mutable list of deal groups the posting loop
// consumes destructively. Grouped deals are the immutable output of the
// validation stage, kept for the browse API and for reshuffles.
type Store interface {
	// PostedTitles returns the ledger contents, oldest first.
	PostedTitles() ([]string, error)

	// IsPosted reports whether a title is in the ledger. Matching uses
	// the normalized title form.
	IsPosted(title string) (bool, error)

	// AppendPosted appends a title to the ledger, evicting the oldest
	// entries beyond the retention cap.
	AppendPosted(title string) error

	// LoadWorkingSet returns the current shuffled deal groups.
	LoadWorkingSet() ([]deal.DealGroup, error)

	// SaveWorkingSet replaces the shuffled deal groups.
	SaveWorkingSet(groups []deal.DealGroup) error

	// LoadGroups returns the last validated deal groups.
	LoadGroups() ([]deal.DealGroup, error)

	// SaveGroups replaces the validated deal groups.
	SaveGroups(groups []deal.DealGroup) error

	// Close releases the underlying connection.
	Close() error
}
