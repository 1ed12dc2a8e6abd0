// Package moderation groups the two moderation concerns of the lounge:
// text censoring applied to accepted chat messages, and the authorization
// predicates consulted by the hub for delete/pin requests.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Censor masks forbidden words in chat text before it reaches the history.
// Matching runs on a normalized view of the text (lowercased, leet speak
// folded, punctuation stripped) while masking is applied to the original
// runes, so spacing and length are preserved.
type Censor struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

type textMapping struct {
	normalized []rune
	origIdx    []int
}

// NewCensor builds the Aho-Corasick automaton over the normalized word list.
// An empty list yields a pass-through censor.
func NewCensor(words []string, replacement rune) (*Censor, error) {
	if len(words) == 0 {
		return &Censor{replacement: replacement}, nil
	}
	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = normalizeRunes([]rune(word))
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Censor{matcher: m, replacement: replacement}, nil
}

// Apply returns the censored text and the number of masked spans.
func (c *Censor) Apply(original string) (string, int) {
	if c.matcher == nil {
		return original, 0
	}
	mapping := c.normalize(original)
	if len(mapping.normalized) == 0 {
		return original, 0
	}

	spans := c.matcher.MultiPatternSearch(mapping.normalized, false)
	if len(spans) == 0 {
		return original, 0
	}

	origRunes := []rune(original)
	for _, span := range spans {
		normStart := span.Pos
		normEnd := normStart + len(span.Word)
		if normStart < 0 || normEnd > len(mapping.origIdx) {
			continue
		}
		origStart := mapping.origIdx[normStart]
		origEnd := mapping.origIdx[normEnd-1] + 1
		for i := origStart; i < origEnd; i++ {
			origRunes[i] = c.replacement
		}
	}
	return string(origRunes), len(spans)
}

// normalize builds the searchable view of the input and keeps a mapping
// back to original rune positions for masking.
func (c *Censor) normalize(input string) textMapping {
	origRunes := []rune(input)
	norm := make([]rune, 0, len(origRunes))
	origIdx := make([]int, 0, len(origRunes))
	for i, r := range origRunes {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		norm = append(norm, unicode.ToLower(clean))
		origIdx = append(origIdx, i)
	}
	return textMapping{normalized: norm, origIdx: origIdx}
}

func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune folds common leet speak characters back to their alphabet
// counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
