package deal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "ELDEN RING", "elden ring"},
		{"colon to space", "Cronos: The New Dawn", "cronos the new dawn"},
		{"hyphen to space", "Cronos The New Dawn - Deluxe Edition", "cronos the new dawn deluxe edition"},
		{"en dash", "Frostpunk – Game of the Year", "frostpunk game of the year"},
		{"em dash", "Frostpunk — Game of the Year", "frostpunk game of the year"},
		{"semicolon", "Serious Sam; Second Encounter", "serious sam second encounter"},
		{"keeps apostrophes", "Assassin's Creed", "assassin's creed"},
		{"strips punctuation", "What Remains of Edith Finch?!", "what remains of edith finch"},
		{"collapses whitespace", "  Hollow   Knight  ", "hollow knight"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeTitle(tc.input))
		})
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	titles := []string{
		"Cronos: The New Dawn - Deluxe Edition",
		"DOOM – Eternal",
		"assassin's creed",
		"  spaced   out  ",
	}

	for _, title := range titles {
		once := NormalizeTitle(title)
		assert.Equal(t, once, NormalizeTitle(once))
	}
}

func TestNormalizeTitlePunctuationVariants(t *testing.T) {
	// Differing hyphen/colon style and spacing must converge.
	a := NormalizeTitle("Cronos: The New Dawn - Deluxe Edition")
	b := NormalizeTitle("Cronos The New Dawn Deluxe Edition")
	c := NormalizeTitle("cronos  the new dawn — deluxe edition")

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}
