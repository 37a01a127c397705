package matcher

import (
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"gelseq/internal/models"
)

type searchFunc func(subject, query string) models.MatchResult

var searches = map[string]searchFunc{
	"prefix-function": PrefixFunctionSearch,
	"rolling-hash":    RollingHashSearch,
}

// naiveSearch is the reference every algorithm is checked against
func naiveSearch(subject, query string) []int {
	offsets := []int{}
	if len(query) == 0 || len(query) > len(subject) {
		return offsets
	}
	for i := 0; i+len(query) <= len(subject); i++ {
		if subject[i:i+len(query)] == query {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

func randomString(rng *rand.Rand, alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}

func TestPrefixFunction(t *testing.T) {
	testCases := []struct {
		pattern  string
		expected []int
	}{
		{"", []int{}},
		{"A", []int{0}},
		{"AAAA", []int{0, 1, 2, 3}},
		{"ATCG", []int{0, 0, 0, 0}},
		{"AABAACAABAA", []int{0, 1, 0, 1, 2, 0, 1, 2, 3, 4, 5}},
		{"AAACAAAA", []int{0, 1, 2, 0, 1, 2, 3, 3}},
	}

	for _, tc := range testCases {
		if got := PrefixFunction(tc.pattern); !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("PrefixFunction(%q): expected %v, got %v", tc.pattern, tc.expected, got)
		}
	}
}

func TestSearchScenarios(t *testing.T) {
	testCases := []struct {
		subject, query string
		expected       []int
		percentage     float64
	}{
		{"ATCGATCG", "ATCG", []int{0, 4}, 100},
		{"AAAA", "AA", []int{0, 1, 2}, 150},
		{"GATTACA", "TTA", []int{2}, 3.0 / 7.0 * 100},
		{"GATTACA", "GATTACA", []int{0}, 100},
		{"GATTACA", "CCC", []int{}, 0},
	}

	for name, search := range searches {
		for _, tc := range testCases {
			res := search(tc.subject, tc.query)
			if !reflect.DeepEqual(res.Offsets, tc.expected) {
				t.Errorf("%s(%q, %q): expected offsets %v, got %v", name, tc.subject, tc.query, tc.expected, res.Offsets)
			}
			if math.Abs(res.MatchPercentage-tc.percentage) > 1e-9 {
				t.Errorf("%s(%q, %q): expected %.4f%%, got %.4f%%", name, tc.subject, tc.query, tc.percentage, res.MatchPercentage)
			}
			if res.Elapsed < 0 {
				t.Errorf("%s: negative elapsed time %v", name, res.Elapsed)
			}
		}
	}
}

func TestSearchShortCircuits(t *testing.T) {
	testCases := []struct {
		name           string
		subject, query string
	}{
		{"empty query", "ATCG", ""},
		{"empty subject", "", "ATCG"},
		{"both empty", "", ""},
		{"query longer than subject", "ATC", "ATCG"},
	}

	for name, search := range searches {
		for _, tc := range testCases {
			res := search(tc.subject, tc.query)
			if res.Offsets == nil || len(res.Offsets) != 0 {
				t.Errorf("%s %s: expected an empty, non-nil offsets list, got %#v", name, tc.name, res.Offsets)
			}
			if res.MatchPercentage != 0 || res.Elapsed != 0 {
				t.Errorf("%s %s: expected zero percentage and time, got %v / %v", name, tc.name, res.MatchPercentage, res.Elapsed)
			}
			if res.Complexity == "" {
				t.Errorf("%s %s: complexity annotation missing", name, tc.name)
			}
		}
	}
}

func TestComplexityAnnotations(t *testing.T) {
	if got := PrefixFunctionSearch("AT", "A").Complexity; got != "O(n+m)" {
		t.Errorf("Unexpected prefix-function complexity %q", got)
	}
	if got := RollingHashSearch("AT", "A").Complexity; got != "O(n*m) worst case, O(n+m) average case" {
		t.Errorf("Unexpected rolling-hash complexity %q", got)
	}
}

// TestSearchOracle cross-checks both algorithms against each other and a
// brute-force scan on random inputs
func TestSearchOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	alphabets := []string{"ATCG", "AB", "abcdefghijklmnopqrstuvwxyz", "A"}

	for iter := 0; iter < 200; iter++ {
		alphabet := alphabets[iter%len(alphabets)]
		subject := randomString(rng, alphabet, rng.Intn(300))
		query := randomString(rng, alphabet, 1+rng.Intn(6))
		if iter%5 == 0 && len(subject) > 10 {
			// Take the query from the subject so there is at least one hit
			start := rng.Intn(len(subject) - 5)
			query = subject[start : start+1+rng.Intn(5)]
		}

		want := naiveSearch(subject, query)
		prefix := PrefixFunctionSearch(subject, query).Offsets
		rolling := RollingHashSearch(subject, query).Offsets

		if !reflect.DeepEqual(prefix, want) {
			t.Fatalf("prefix-function(%q, %q): expected %v, got %v", subject, query, want, prefix)
		}
		if !reflect.DeepEqual(rolling, want) {
			t.Fatalf("rolling-hash(%q, %q): expected %v, got %v", subject, query, want, rolling)
		}
	}
}

func TestSearchRepeatedRuns(t *testing.T) {
	testCases := []struct {
		subject, query string
	}{
		{strings.Repeat("A", 500), strings.Repeat("A", 7)},
		{strings.Repeat("A", 499) + "T", strings.Repeat("A", 10) + "T"},
		{strings.Repeat("AAAT", 100), "AAATAAAT"},
		{strings.Repeat("AB", 250), "ABABA"},
		{strings.Repeat("G", 64), strings.Repeat("G", 64)},
		{strings.Repeat("C", 63), strings.Repeat("C", 64)},
	}

	for _, tc := range testCases {
		want := naiveSearch(tc.subject, tc.query)
		for name, search := range searches {
			if got := search(tc.subject, tc.query).Offsets; !reflect.DeepEqual(got, want) {
				t.Errorf("%s on %d-byte run with %q: expected %d matches, got %d",
					name, len(tc.subject), tc.query, len(want), len(got))
			}
		}
	}
}

func TestRollingHashCollisions(t *testing.T) {
	// With modulus 101 many windows share the query's hash; only real
	// occurrences may be reported
	rng := rand.New(rand.NewSource(99))
	query := "GATC"
	subject := randomString(rng, "ATCG", 5000)

	want := naiveSearch(subject, query)
	if got := RollingHashSearch(subject, query).Offsets; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %d verified matches, got %d", len(want), len(got))
	}
}

func TestPositionalMatch(t *testing.T) {
	testCases := []struct {
		subject, query string
		expected       float64
	}{
		{"ATCGATCG", "ATCG", 100},
		{"ATCG", "ATGG", 75},
		{"AAAA", "TTTT", 0},
		{"", "ATCG", 0},
		{"ATCG", "", 0},
		{"GT", "GTTTTT", 100},
	}

	for _, tc := range testCases {
		if got := PositionalMatch(tc.subject, tc.query); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("PositionalMatch(%q, %q): expected %.2f, got %.2f", tc.subject, tc.query, tc.expected, got)
		}
	}
}

func TestCompare(t *testing.T) {
	cmp := Compare("ATCGATCG", "ATCG")

	if cmp.PositionalMatch != 100 {
		t.Errorf("Expected positional match 100, got %.2f", cmp.PositionalMatch)
	}
	for name, res := range map[string]models.MatchResult{
		"prefix-function": cmp.PrefixFunction,
		"rolling-hash":    cmp.RollingHash,
	} {
		if !reflect.DeepEqual(res.Offsets, []int{0, 4}) {
			t.Errorf("%s: expected offsets [0 4], got %v", name, res.Offsets)
		}
		if res.MatchPercentage != 100 {
			t.Errorf("%s: expected 100%%, got %.2f", name, res.MatchPercentage)
		}
	}
}

func BenchmarkSearch(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	subject := randomString(rng, "ATCG", 100000)
	query := subject[5000:5012]

	for name, search := range searches {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				search(subject, query)
			}
		})
	}
}
