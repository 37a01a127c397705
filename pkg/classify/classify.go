// Package classify calls a base for every pixel of an image from which
// colour channel dominates it.
package classify

import (
	"runtime"
	"sync"

	"gelseq/internal/models"
)

// minBandRows keeps small images on a single goroutine.
const minBandRows = 64

// Pixel classifies one pixel. A channel wins when it exceeds its threshold
// and is strictly brighter than both other channels; everything else,
// including ties and dark pixels, is Guanine.
func Pixel(r, g, b uint8, th models.Thresholds) models.Nucleotide {
	ri, gi, bi := int(r), int(g), int(b)
	switch {
	case ri > th.Red && ri > gi && ri > bi:
		return models.Adenine
	case gi > th.Green && gi > ri && gi > bi:
		return models.Thymine
	case bi > th.Blue && bi > ri && bi > gi:
		return models.Cytosine
	}
	return models.Guanine
}

// Classify builds the nucleotide map of the whole grid. Rows are split into
// bands classified concurrently; every band writes a disjoint part of the
// map, so the result does not depend on scheduling.
func Classify(grid *models.PixelGrid, th models.Thresholds) *models.NucleotideMap {
	m := &models.NucleotideMap{
		Height: grid.Height,
		Width:  grid.Width,
		Cells:  make([]models.Nucleotide, grid.Height*grid.Width),
	}
	if len(m.Cells) == 0 {
		return m
	}

	workers := runtime.NumCPU()
	if bands := (grid.Height + minBandRows - 1) / minBandRows; workers > bands {
		workers = bands
	}
	rowsPerBand := (grid.Height + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < grid.Height; start += rowsPerBand {
		end := start + rowsPerBand
		if end > grid.Height {
			end = grid.Height
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			classifyRows(grid, th, m, start, end)
		}(start, end)
	}
	wg.Wait()

	return m
}

func classifyRows(grid *models.PixelGrid, th models.Thresholds, m *models.NucleotideMap, start, end int) {
	for y := start; y < end; y++ {
		row := grid.Row(y)
		cells := m.Cells[y*m.Width : (y+1)*m.Width]
		for x := range cells {
			cells[x] = Pixel(row[x*3], row[x*3+1], row[x*3+2], th)
		}
	}
}

// Sequence flattens the map row by row into a string of base letters.
// Unclassified cells are skipped, so a map produced by Classify always gives
// Height*Width letters.
func Sequence(m *models.NucleotideMap) string {
	buf := make([]byte, 0, len(m.Cells))
	for _, n := range m.Cells {
		if n != models.None {
			buf = append(buf, byte(n))
		}
	}
	return string(buf)
}

// Count returns how many cells fall into each category.
func Count(m *models.NucleotideMap) models.NucleotideCounts {
	var counts models.NucleotideCounts
	for _, n := range m.Cells {
		switch n {
		case models.Adenine:
			counts.A++
		case models.Thymine:
			counts.T++
		case models.Cytosine:
			counts.C++
		case models.Guanine:
			counts.G++
		}
	}
	return counts
}
