package signal

import (
	"golang.org/x/exp/slices"

	"gelseq/internal/models"
)

// FindPeaks returns the ascending positions of local maxima in s.
//
// A position qualifies when its value exceeds params.Height and is strictly
// greater than both neighbours, so the first and last samples never do.
// Candidates are accepted left to right and a candidate closer than
// params.Distance to the last accepted peak is skipped; an accepted peak is
// never replaced by a later, higher one.
func FindPeaks(s []float64, params models.PeakParams) []int {
	distance := params.Distance
	if distance < 1 {
		distance = 1
	}

	peaks := []int{}
	last := -distance
	for i := 1; i < len(s)-1; i++ {
		v := s[i]
		if v <= params.Height || v <= s[i-1] || v <= s[i+1] {
			continue
		}
		if i-last < distance {
			continue
		}
		peaks = append(peaks, i)
		last = i
	}
	return peaks
}

// DetectPeaks runs FindPeaks on every trace, stores each result in its trace
// and returns the sorted, deduplicated union of all positions.
func DetectPeaks(traces *models.Traces, params models.PeakParams) []int {
	var all []int
	for i := range traces {
		traces[i].Peaks = FindPeaks(traces[i].Signal, params)
		all = append(all, traces[i].Peaks...)
	}
	slices.Sort(all)
	all = slices.Compact(all)
	if all == nil {
		all = []int{}
	}
	return all
}
