// Package imaging turns encoded image bytes into a models.PixelGrid.
//
// Decoding tries the native containers (PNG, JPEG) first. When those reject
// the input, the generic image registry is tried, which additionally knows
// GIF, BMP, TIFF and WebP. Either way the result is forced to three colour
// channels in R,G,B order.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"gelseq/internal/models"
)

// ErrDecode is matched by every DecodeError.
var ErrDecode = errors.New("could not read image")

// DecodeError reports that neither decode path accepted the bytes.
type DecodeError struct {
	// Name identifies the input when the caller knows it
	Name string

	// Primary is the native decoder's failure
	Primary error

	// Fallback is the registry decoder's failure
	Fallback error
}

func (e *DecodeError) Error() string {
	prefix := ErrDecode.Error()
	if e.Name != "" {
		prefix += " " + e.Name
	}
	switch {
	case e.Primary != nil && e.Fallback != nil:
		return fmt.Sprintf("%s: %v; fallback: %v", prefix, e.Primary, e.Fallback)
	case e.Fallback != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Fallback)
	case e.Primary != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Primary)
	}
	return prefix
}

// Is makes errors.Is(err, ErrDecode) true for any DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Unwrap exposes both underlying causes.
func (e *DecodeError) Unwrap() []error {
	var errs []error
	if e.Primary != nil {
		errs = append(errs, e.Primary)
	}
	if e.Fallback != nil {
		errs = append(errs, e.Fallback)
	}
	return errs
}

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xff, 0xd8}

	errEmpty       = errors.New("empty input")
	errUnsupported = errors.New("not a PNG or JPEG container")
	errZeroArea    = errors.New("image has no pixels")
)

// Decode converts raw encoded bytes into a pixel grid.
func Decode(data []byte) (*models.PixelGrid, error) {
	grid, _, err := decode(data)
	return grid, err
}

// DecodeFile reads path and decodes its contents.
func DecodeFile(path string) (*models.PixelGrid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return Decode(data)
}

// decode also reports the format that accepted the bytes.
func decode(data []byte) (*models.PixelGrid, string, error) {
	if len(data) == 0 {
		return nil, "", &DecodeError{Primary: errEmpty}
	}

	img, format, primaryErr := decodeNative(data)
	if primaryErr != nil {
		var fallbackErr error
		img, format, fallbackErr = image.Decode(bytes.NewReader(data))
		if fallbackErr != nil {
			return nil, "", &DecodeError{Primary: primaryErr, Fallback: fallbackErr}
		}
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, "", &DecodeError{Primary: primaryErr, Fallback: errZeroArea}
	}

	return toGrid(img), format, nil
}

// decodeNative handles the two containers a scanner normally produces.
func decodeNative(data []byte) (image.Image, string, error) {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		img, err := png.Decode(bytes.NewReader(data))
		return img, "png", err
	case bytes.HasPrefix(data, jpegMagic):
		img, err := jpeg.Decode(bytes.NewReader(data))
		return img, "jpeg", err
	}
	return nil, "", errUnsupported
}

// toGrid drops alpha without premultiplying and replicates gray into all
// three channels.
func toGrid(img image.Image) *models.PixelGrid {
	bounds := img.Bounds()
	grid := models.NewPixelGrid(bounds.Dy(), bounds.Dx())

	switch src := img.(type) {
	case *image.RGBA:
		if src.Opaque() {
			for y := 0; y < grid.Height; y++ {
				off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
				row := src.Pix[off : off+grid.Width*4]
				dst := grid.Row(y)
				for x := 0; x < grid.Width; x++ {
					dst[x*3], dst[x*3+1], dst[x*3+2] = row[x*4], row[x*4+1], row[x*4+2]
				}
			}
			return grid
		}
	case *image.NRGBA:
		for y := 0; y < grid.Height; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := src.Pix[off : off+grid.Width*4]
			dst := grid.Row(y)
			for x := 0; x < grid.Width; x++ {
				dst[x*3], dst[x*3+1], dst[x*3+2] = row[x*4], row[x*4+1], row[x*4+2]
			}
		}
		return grid
	case *image.Gray:
		for y := 0; y < grid.Height; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := src.Pix[off : off+grid.Width]
			dst := grid.Row(y)
			for x, v := range row {
				dst[x*3], dst[x*3+1], dst[x*3+2] = v, v, v
			}
		}
		return grid
	}

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			grid.Set(y, x, c.R, c.G, c.B)
		}
	}
	return grid
}
