package models

import (
	"time"
)

// Nucleotide is a single base call. None marks an unclassified cell.
type Nucleotide byte

const (
	None     Nucleotide = 0
	Adenine  Nucleotide = 'A'
	Thymine  Nucleotide = 'T'
	Cytosine Nucleotide = 'C'
	Guanine  Nucleotide = 'G'
)

// String returns the one-letter code, or "-" for None.
func (n Nucleotide) String() string {
	if n == None {
		return "-"
	}
	return string(rune(n))
}

// Channel identifies one of the four intensity curves of a scan line.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
	// Derived is the guanine curve, the average of red and green
	Derived
)

// NumChannels is the number of curves extracted per image.
const NumChannels = 4

// Channels lists the curves in tie-break order.
var Channels = [NumChannels]Channel{Red, Green, Blue, Derived}

// Nucleotide returns the base called when this channel dominates.
func (c Channel) Nucleotide() Nucleotide {
	switch c {
	case Red:
		return Adenine
	case Green:
		return Thymine
	case Blue:
		return Cytosine
	default:
		return Guanine
	}
}

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Derived:
		return "guanine"
	}
	return "unknown"
}

// PixelGrid is a decoded image as height x width x 3 bytes in R,G,B order.
// It is never modified after decoding.
type PixelGrid struct {
	Height int
	Width  int

	// Pix holds the pixels row by row, three bytes per pixel
	Pix []uint8
}

// NewPixelGrid allocates a black grid.
func NewPixelGrid(height, width int) *PixelGrid {
	return &PixelGrid{
		Height: height,
		Width:  width,
		Pix:    make([]uint8, height*width*3),
	}
}

// At returns the colour of the pixel at row y, column x.
func (g *PixelGrid) At(y, x int) (r, gr, b uint8) {
	i := (y*g.Width + x) * 3
	return g.Pix[i], g.Pix[i+1], g.Pix[i+2]
}

// Set is used while building a grid.
func (g *PixelGrid) Set(y, x int, r, gr, b uint8) {
	i := (y*g.Width + x) * 3
	g.Pix[i], g.Pix[i+1], g.Pix[i+2] = r, gr, b
}

// Row returns the 3*Width bytes of row y without copying.
func (g *PixelGrid) Row(y int) []uint8 {
	start := y * g.Width * 3
	return g.Pix[start : start+g.Width*3]
}

// ChannelTrace groups one channel's normalized signal with the peaks
// detected on it.
type ChannelTrace struct {
	Channel Channel

	// Signal has one value per horizontal pixel, scaled so its maximum is 1
	// (or all zero for a dark channel)
	Signal []float64

	// Peaks holds ascending indices into Signal
	Peaks []int
}

// Traces holds the four channel records of one scan line, indexed by Channel.
type Traces [NumChannels]ChannelTrace

// PeakParams controls peak detection.
type PeakParams struct {
	// Height is the minimum normalized value a peak must exceed
	Height float64 `json:"height" yaml:"height"`

	// Distance is the minimum number of samples between accepted peaks
	Distance int `json:"distance" yaml:"distance"`
}

// DefaultPeakParams returns height 0.1, distance 1.
func DefaultPeakParams() PeakParams {
	return PeakParams{Height: 0.1, Distance: 1}
}

// Thresholds are the per-channel minimum intensities (0-255) used by the
// pixel classifier.
type Thresholds struct {
	Red   int `json:"red" yaml:"red"`
	Green int `json:"green" yaml:"green"`
	Blue  int `json:"blue" yaml:"blue"`
}

// DefaultThresholds returns 30 for every channel.
func DefaultThresholds() Thresholds {
	return Thresholds{Red: 30, Green: 30, Blue: 30}
}

// NucleotideMap is the per-pixel classification of a whole image.
type NucleotideMap struct {
	Height int
	Width  int
	Cells  []Nucleotide
}

// At returns the call for row y, column x.
func (m *NucleotideMap) At(y, x int) Nucleotide {
	return m.Cells[y*m.Width+x]
}

// NucleotideCounts is the number of pixels per category.
type NucleotideCounts struct {
	A int `json:"A" yaml:"A"`
	T int `json:"T" yaml:"T"`
	C int `json:"C" yaml:"C"`
	G int `json:"G" yaml:"G"`
}

// Total is the number of classified pixels.
func (c NucleotideCounts) Total() int {
	return c.A + c.T + c.C + c.G
}

// ChannelSummary describes one channel of the scan line.
type ChannelSummary struct {
	Channel   string  `json:"channel"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stdDev"`
	PeakCount int     `json:"peakCount"`
}

// ImageReport is everything extracted from a single image.
type ImageReport struct {
	Filename string `json:"filename"`

	// PeakSequence is called from the peaks of the middle scan line
	PeakSequence string `json:"dnaSequence"`

	// IntensitySequence is the row-major per-pixel classification
	IntensitySequence string `json:"intensitySequence"`

	Counts   NucleotideCounts `json:"nucleotideCounts"`
	Channels []ChannelSummary `json:"channels"`

	// Chromatogram is a PNG rendering of the traces, if requested
	Chromatogram []byte `json:"chromatogram,omitempty"`

	// Traces and Map are kept for callers that render or inspect them
	Traces Traces         `json:"-"`
	Map    *NucleotideMap `json:"-"`
}

// MatchResult is the outcome of one search algorithm.
type MatchResult struct {
	// Offsets are the ascending start positions of the query in the subject
	Offsets []int `json:"matches"`

	// MatchPercentage is len(Offsets)*len(query)/len(subject)*100. It is not
	// bounded by 100 when matches overlap.
	MatchPercentage float64 `json:"matchPercentage"`

	Elapsed    time.Duration `json:"timeTaken"`
	Complexity string        `json:"complexity"`
}

// Comparison holds the three measurements taken for a pair of sequences.
type Comparison struct {
	PositionalMatch float64     `json:"basicMatchPercentage"`
	PrefixFunction  MatchResult `json:"prefixFunction"`
	RollingHash     MatchResult `json:"rollingHash"`
}
