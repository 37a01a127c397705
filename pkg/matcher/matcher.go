// Package matcher measures how well one nucleotide sequence occurs in
// another: a naive positional match plus two exact substring searches, each
// timed on its own.
//
// In every function the first argument is the subject (searched in) and the
// second the query (searched for). Empty inputs and a query longer than the
// subject are valid and yield empty results.
package matcher

import (
	"gelseq/internal/models"
)

// PositionalMatch is the percentage of equal bytes at equal indices over the
// shorter of the two sequences. It is 0 when either is empty.
func PositionalMatch(subject, query string) float64 {
	n := len(subject)
	if len(query) < n {
		n = len(query)
	}
	if n == 0 {
		return 0
	}

	matches := 0
	for i := 0; i < n; i++ {
		if subject[i] == query[i] {
			matches++
		}
	}
	return float64(matches) / float64(n) * 100
}

// Compare runs the positional match and both searches.
func Compare(subject, query string) models.Comparison {
	return models.Comparison{
		PositionalMatch: PositionalMatch(subject, query),
		PrefixFunction:  PrefixFunctionSearch(subject, query),
		RollingHash:     RollingHashSearch(subject, query),
	}
}

func searchable(subject, query string) bool {
	return len(subject) > 0 && len(query) > 0 && len(query) <= len(subject)
}

// matchPercentage is count*|query|/|subject|*100. Overlapping matches are
// counted in full, so the value can exceed 100.
func matchPercentage(count int, subject, query string) float64 {
	if len(subject) == 0 {
		return 0
	}
	return float64(count*len(query)) / float64(len(subject)) * 100
}
