package matcher

import (
	"time"

	"gelseq/internal/models"
)

// RollingHashComplexity annotates results of RollingHashSearch.
const RollingHashComplexity = "O(n*m) worst case, O(n+m) average case"

const (
	hashBase    = 256
	hashModulus = 101
)

// RollingHashSearch reports every offset at which query occurs in subject
// using a polynomial hash over a sliding window. The modulus is small, so
// equal hashes are confirmed by comparing the window byte by byte.
func RollingHashSearch(subject, query string) models.MatchResult {
	result := models.MatchResult{
		Offsets:    []int{},
		Complexity: RollingHashComplexity,
	}
	if !searchable(subject, query) {
		return result
	}

	start := time.Now()
	result.Offsets = rollingHashSearch(subject, query)
	result.Elapsed = time.Since(start)

	result.MatchPercentage = matchPercentage(len(result.Offsets), subject, query)
	return result
}

func rollingHashSearch(subject, query string) []int {
	n, m := len(subject), len(query)

	// weight of the outgoing byte: base^(m-1) mod q
	h := 1
	for i := 0; i < m-1; i++ {
		h = (h * hashBase) % hashModulus
	}

	queryHash, windowHash := 0, 0
	for i := 0; i < m; i++ {
		queryHash = (hashBase*queryHash + int(query[i])) % hashModulus
		windowHash = (hashBase*windowHash + int(subject[i])) % hashModulus
	}

	offsets := []int{}
	for i := 0; i <= n-m; i++ {
		if queryHash == windowHash && subject[i:i+m] == query {
			offsets = append(offsets, i)
		}

		if i < n-m {
			windowHash = (hashBase*(windowHash-int(subject[i])*h) + int(subject[i+m])) % hashModulus
			if windowHash < 0 {
				windowHash += hashModulus
			}
		}
	}
	return offsets
}
