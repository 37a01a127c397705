package signal

import (
	"strings"

	"gelseq/internal/models"
)

// AssignSequence calls one base per position in peaks. The channel with the
// highest value wins; on a tie the earlier channel in A, T, C, G order wins.
func AssignSequence(peaks []int, traces models.Traces) string {
	var sb strings.Builder
	sb.Grow(len(peaks))

	for _, p := range peaks {
		best := models.Channels[0]
		bestValue := traces[best].Signal[p]
		for _, ch := range models.Channels[1:] {
			if v := traces[ch].Signal[p]; v > bestValue {
				best, bestValue = ch, v
			}
		}
		sb.WriteByte(byte(best.Nucleotide()))
	}

	return sb.String()
}
