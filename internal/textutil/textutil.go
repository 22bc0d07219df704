// Package textutil provides text helpers for filename slugs and
// word-overlap similarity between station names.
//
// Tokenization lowercases text, splits on non-alphanumeric runs, and
// drops single-character tokens so "The Morning Show!" and "morning
// show" compare cleanly.
package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

var titleCaser = cases.Title(language.English)

// Tokenize splits text into lowercase tokens, filtering single characters.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := tokenSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if len(token) < 2 {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// WordOverlap returns the fraction of tokens shared between a and b,
// relative to the smaller token set. Returns 0 when either side has no
// usable tokens.
func WordOverlap(a, b string) float64 {
	tokensA := Tokenize(a)
	tokensB := Tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(tokensA))
	for _, token := range tokensA {
		setA[token] = struct{}{}
	}
	shared := 0
	seen := make(map[string]struct{}, len(tokensB))
	for _, token := range tokensB {
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		if _, ok := setA[token]; ok {
			shared++
		}
	}
	smaller := len(setA)
	if len(seen) < smaller {
		smaller = len(seen)
	}
	return float64(shared) / float64(smaller)
}

// Slug renders a show name as a compact CamelCase filename segment:
// "the morning show" becomes "TheMorningShow". Characters outside
// [A-Za-z0-9] are dropped.
func Slug(name string) string {
	words := tokenSplitPattern.Split(strings.ToLower(strings.TrimSpace(name)), -1)
	var sb strings.Builder
	for _, word := range words {
		if word == "" {
			continue
		}
		sb.WriteString(titleCaser.String(word))
	}
	return sb.String()
}

// SimplifyName strips common qualifiers ("radio", "fm", "am", "the")
// from a station name to widen registry searches.
func SimplifyName(name string) string {
	drop := map[string]struct{}{"radio": {}, "fm": {}, "am": {}, "the": {}, "station": {}}
	tokens := Tokenize(name)
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, skip := drop[token]; skip {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}
