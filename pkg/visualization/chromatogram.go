package visualization

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"gelseq/internal/models"
)

// ChromatogramWidth and ChromatogramHeight are the rendered canvas size.
const (
	ChromatogramWidth  = 10 * vg.Inch
	ChromatogramHeight = 6 * vg.Inch
)

var traceLabels = map[models.Channel]string{
	models.Red:     "A (Red)",
	models.Green:   "T (Green)",
	models.Blue:    "C (Blue)",
	models.Derived: "G (Yellow)",
}

// Chromatogram plots the four traces with a marker on every detected peak
// and returns the chart as PNG bytes.
func Chromatogram(traces models.Traces) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Peak-based Chromatogram"
	p.X.Label.Text = "Position"
	p.Y.Label.Text = "Normalized Intensity"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for _, tr := range traces {
		c := Palette[tr.Channel.Nucleotide()]

		pts := make(plotter.XYs, len(tr.Signal))
		for i, v := range tr.Signal {
			pts[i].X = float64(i)
			pts[i].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to plot %s trace: %w", tr.Channel, err)
		}
		line.Color = c
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(traceLabels[tr.Channel], line)

		if len(tr.Peaks) == 0 {
			continue
		}
		marks := make(plotter.XYs, len(tr.Peaks))
		for i, pos := range tr.Peaks {
			marks[i].X = float64(pos)
			marks[i].Y = tr.Signal[pos]
		}
		scatter, err := plotter.NewScatter(marks)
		if err != nil {
			return nil, fmt.Errorf("failed to plot %s peaks: %w", tr.Channel, err)
		}
		scatter.GlyphStyle.Color = c
		scatter.GlyphStyle.Radius = vg.Points(3)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
	}

	w, err := p.WriterTo(ChromatogramWidth, ChromatogramHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create chromatogram canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render chromatogram: %w", err)
	}
	return buf.Bytes(), nil
}
