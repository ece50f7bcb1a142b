// Package textutil provides the text primitives the classification engine
// is built on: token-overlap similarity and markup stripping.
package textutil

import "strings"

// Similarity computes fuzzy token-overlap similarity between two text
// spans, in [0,1]. Both inputs are lowercased and tokenized on whitespace;
// tokens of length <= 2 are discarded as stop words. The score is the count
// of a's tokens present in b's token set, divided by the larger of the two
// token counts. Returns 0 if either side has no usable tokens.
func Similarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setB := make(map[string]struct{}, len(tokensB))
	for _, t := range tokensB {
		setB[t] = struct{}{}
	}

	overlap := 0
	for _, t := range tokensA {
		if _, ok := setB[t]; ok {
			overlap++
		}
	}

	denom := len(tokensA)
	if len(tokensB) > denom {
		denom = len(tokensB)
	}
	return float64(overlap) / float64(denom)
}

func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
