package deal

import (
	"regexp"
	"strings"
)

var (
	separatorRe  = regexp.MustCompile(`[-:;\x{2013}\x{2014}]`)
	punctRe      = regexp.MustCompile(`[^\p{L}\p{N}_\s']`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeTitle canonicalizes a game title for cross-source matching.
// Every component that compares titles must go through this function;
// two titles name the same game iff their normalized forms are equal.
func NormalizeTitle(title string) string {
	normalized := strings.ToLower(strings.TrimSpace(title))

	// Hyphens, colons, semicolons and dashes separate words in some
	// storefronts and are omitted in others.
	normalized = separatorRe.ReplaceAllString(normalized, " ")

	// Drop remaining punctuation but keep apostrophes (O'Brien).
	normalized = punctRe.ReplaceAllString(normalized, "")

	normalized = whitespaceRe.ReplaceAllString(normalized, " ")

	return strings.TrimSpace(normalized)
}
