package matcher

import (
	"time"

	"gelseq/internal/models"
)

// PrefixFunctionComplexity annotates results of PrefixFunctionSearch.
const PrefixFunctionComplexity = "O(n+m)"

// PrefixFunction returns, for every prefix of pattern, the length of its
// longest proper prefix that is also a suffix.
func PrefixFunction(pattern string) []int {
	lps := make([]int, len(pattern))
	length := 0
	for i := 1; i < len(pattern); {
		switch {
		case pattern[i] == pattern[length]:
			length++
			lps[i] = length
			i++
		case length != 0:
			length = lps[length-1]
		default:
			lps[i] = 0
			i++
		}
	}
	return lps
}

// PrefixFunctionSearch reports every offset at which query occurs in subject,
// overlapping occurrences included. On a mismatch the match cursor falls back
// through the prefix table instead of rescanning the subject.
func PrefixFunctionSearch(subject, query string) models.MatchResult {
	result := models.MatchResult{
		Offsets:    []int{},
		Complexity: PrefixFunctionComplexity,
	}
	if !searchable(subject, query) {
		return result
	}

	start := time.Now()
	result.Offsets = prefixFunctionSearch(subject, query)
	result.Elapsed = time.Since(start)

	result.MatchPercentage = matchPercentage(len(result.Offsets), subject, query)
	return result
}

func prefixFunctionSearch(subject, query string) []int {
	lps := PrefixFunction(query)
	n, m := len(subject), len(query)

	offsets := []int{}
	j := 0
	for i := 0; i < n; i++ {
		for j > 0 && subject[i] != query[j] {
			j = lps[j-1]
		}
		if subject[i] == query[j] {
			j++
		}
		if j == m {
			offsets = append(offsets, i-m+1)
			j = lps[j-1]
		}
	}
	return offsets
}
