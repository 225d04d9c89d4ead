package matcher

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// levenshtein is a reusable metric instance; it is stateless configuration.
var levenshtein = metrics.NewLevenshtein()

// Result pairs a candidate with its distance score: a normalized edit
// distance in [0,1] where 0 is a perfect match.
type Result[T any] struct {
	Item  T
	Score float64
}

// Distance returns the normalized Levenshtein distance between two strings,
// case-insensitively. 0 = identical, 1 = nothing in common.
func Distance(a, b string) float64 {
	return 1 - strutil.Similarity(strings.ToLower(a), strings.ToLower(b), levenshtein)
}

// Search scores query against every candidate across the given key selectors,
// taking the best (lowest) distance per candidate. Results at or above
// threshold are excluded; the rest come back ordered best-first. The sort is
// stable, so near-ties keep candidate order and the first-encountered
// candidate wins — callers that consume only the best result depend on this
// for reproducibility.
func Search[T any](query string, candidates []T, keys []func(T) string, threshold float64) []Result[T] {
	if query == "" || len(candidates) == 0 || len(keys) == 0 {
		return nil
	}

	results := make([]Result[T], 0, len(candidates))
	for _, candidate := range candidates {
		best := 1.0
		scored := false
		for _, key := range keys {
			field := key(candidate)
			if field == "" {
				continue
			}
			if d := Distance(query, field); !scored || d < best {
				best = d
				scored = true
			}
		}

		if scored && best < threshold {
			results = append(results, Result[T]{Item: candidate, Score: best})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	return results
}
