// Package visualization renders the chromatogram of a scan line and the
// per-pixel nucleotide map of a whole image.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"gelseq/internal/models"
)

// Palette is the colour key shared by the chromatogram and the map.
var Palette = map[models.Nucleotide]color.RGBA{
	models.None:     {A: 255},
	models.Adenine:  {R: 255, A: 255},
	models.Thymine:  {G: 128, A: 255},
	models.Cytosine: {B: 255, A: 255},
	models.Guanine:  {R: 255, G: 255, A: 255},
}

// Viewer renders a nucleotide map.
type Viewer struct {
	m *models.NucleotideMap
}

// NewViewer creates a viewer over m
func NewViewer(m *models.NucleotideMap) *Viewer {
	return &Viewer{m: m}
}

// Render paints every cell in its palette colour.
func (v *Viewer) Render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, v.m.Width, v.m.Height))
	for y := 0; y < v.m.Height; y++ {
		for x := 0; x < v.m.Width; x++ {
			img.SetRGBA(x, y, Palette[v.m.At(y, x)])
		}
	}
	return img
}

// ExtractRegion returns a copy of a rectangular part of the map
func (v *Viewer) ExtractRegion(startX, startY, sizeX, sizeY int) (*models.NucleotideMap, error) {
	if startX < 0 || startY < 0 {
		return nil, fmt.Errorf("start coordinates must be non-negative")
	}

	if sizeX <= 0 || sizeY <= 0 {
		return nil, fmt.Errorf("size dimensions must be positive")
	}

	if startX+sizeX > v.m.Width || startY+sizeY > v.m.Height {
		return nil, fmt.Errorf("region extends beyond map boundaries")
	}

	region := &models.NucleotideMap{
		Height: sizeY,
		Width:  sizeX,
		Cells:  make([]models.Nucleotide, sizeX*sizeY),
	}
	for y := 0; y < sizeY; y++ {
		src := (startY+y)*v.m.Width + startX
		copy(region.Cells[y*sizeX:(y+1)*sizeX], v.m.Cells[src:src+sizeX])
	}

	return region, nil
}

// Save writes the rendered map to filename
func (v *Viewer) Save(filename string) error {
	return SaveImage(v.Render(), filename)
}

// SaveImage writes img as PNG, or as JPEG when filename ends in .jpg/.jpeg
func SaveImage(img image.Image, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	default:
		err = png.Encode(file, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}

	return file.Close()
}
