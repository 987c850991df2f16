// Package validator checks candidate deals against live storefront prices
// and the topseller reference list.
package validator

import (
	"context"

	"gamedealbot/helpers"
	"gamedealbot/internal/deal"
	"gamedealbot/pkg/errors"
)

// PriceIndex looks up reference prices by normalized title
type PriceIndex struct {
	byTitle map[string]deal.ReferencePrice
}

// NewPriceIndex builds an index over the reference list. On duplicate
// normalized titles the first entry wins, matching list order.
func NewPriceIndex(refs []deal.ReferencePrice) *PriceIndex {
	idx := &PriceIndex{byTitle: make(map[string]deal.ReferencePrice, len(refs))}
	for _, ref := range refs {
		key := deal.NormalizeTitle(ref.Title)
		if key == "" {
			continue
		}
		if _, exists := idx.byTitle[key]; !exists {
			idx.byTitle[key] = ref
		}
	}
	return idx
}

// Lookup returns the reference entry for a title, if any
func (idx *PriceIndex) Lookup(title string) (deal.ReferencePrice, bool) {
	ref, ok := idx.byTitle[deal.NormalizeTitle(title)]
	return ref, ok
}

// Len returns the number of indexed reference entries
func (idx *PriceIndex) Len() int {
	return len(idx.byTitle)
}

// Validator resolves live quotes and accepts candidates that undercut
// their reference price
type Validator struct {
	refs       *PriceIndex
	extractors map[string]Extractor
}

// NewValidator creates a validator over the given reference prices and
// source extractors
func NewValidator(refs *PriceIndex, extractors map[string]Extractor) *Validator {
	return &Validator{
		refs:       refs,
		extractors: extractors,
	}
}

// Validate checks one candidate. The returned error describes the
// rejection; callers log it and drop the candidate, a single bad deal
// never fails the batch.
//
// Acceptance requires a resolvable live quote, a positive non-free
// reference price, and sale price strictly below the reference price.
func (v *Validator) Validate(ctx context.Context, session Session, candidate *deal.CandidateDeal) (*deal.ValidDeal, error) {
	extract, ok := v.extractors[candidate.Source]
	if !ok {
		return nil, errors.NewValidation(candidate.Source, candidate.Title, "unknown source")
	}

	quote, err := extract(ctx, session, candidate)
	if err != nil {
		return nil, err
	}

	ref, ok := v.refs.Lookup(candidate.Title)
	if !ok {
		return nil, errors.NewValidation(candidate.Source, candidate.Title, "no reference price")
	}
	// Free or delisted games can never be deals.
	if ref.Free() {
		return nil, errors.NewValidation(candidate.Source, candidate.Title, "reference price is free")
	}

	if !quote.SalePrice.LessThan(ref.Price) {
		return nil, errors.NewValidation(candidate.Source, candidate.Title, "not cheaper than reference")
	}

	imageLink := candidate.ImageLink
	if quote.ImageLink != "" {
		imageLink = quote.ImageLink
	}

	return &deal.ValidDeal{
		Source:    candidate.Source,
		Title:     candidate.Title,
		Link:      candidate.Link,
		ImageLink: imageLink,
		Discount:  quote.Discount,
		SalePrice: helpers.FormatPrice(quote.SalePrice),
	}, nil
}
