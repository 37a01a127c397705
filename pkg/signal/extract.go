// Package signal reduces the middle scan line of a gel image to four
// normalized intensity curves, finds their peaks and calls a base at every
// peak position.
package signal

import (
	"gonum.org/v1/gonum/floats"

	"gelseq/internal/models"
)

// ScanRow is the row used for the lane, height/2 rounded down.
func ScanRow(grid *models.PixelGrid) int {
	return grid.Height / 2
}

// Extract builds the red, green, blue and derived guanine curves of the
// middle row. Each curve is divided by its own maximum; a curve whose maximum
// is 0 stays all zero. The guanine curve is the mean of the normalized red
// and green curves, renormalized the same way.
func Extract(grid *models.PixelGrid) models.Traces {
	var traces models.Traces
	for _, ch := range models.Channels {
		traces[ch] = models.ChannelTrace{
			Channel: ch,
			Signal:  make([]float64, grid.Width),
		}
	}
	if grid.Width == 0 || grid.Height == 0 {
		return traces
	}

	row := grid.Row(ScanRow(grid))
	red := traces[models.Red].Signal
	green := traces[models.Green].Signal
	blue := traces[models.Blue].Signal
	for x := 0; x < grid.Width; x++ {
		red[x] = float64(row[x*3])
		green[x] = float64(row[x*3+1])
		blue[x] = float64(row[x*3+2])
	}
	normalize(red)
	normalize(green)
	normalize(blue)

	guanine := traces[models.Derived].Signal
	floats.AddTo(guanine, red, green)
	floats.Scale(0.5, guanine)
	normalize(guanine)

	return traces
}

// normalize scales s in place so its maximum is 1.
func normalize(s []float64) {
	if len(s) == 0 {
		return
	}
	peak := floats.Max(s)
	if peak <= 0 {
		return
	}
	floats.Scale(1/peak, s)
}
