// Package palette turns source images into five-color palettes.
package palette

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/EdlinOrg/prominentcolor"
)

// Size is the number of colors in every palette. Hard invariant: extraction
// either yields exactly Size colors or fails.
const Size = 5

// paddingColor fills the tail when quantization finds fewer clusters than Size.
const paddingColor = "#000000"

// ErrNoColors means quantization produced zero usable colors. This is a hard
// failure, never padded into a black palette.
var ErrNoColors = errors.New("no colors extracted")

// Extractor produces an ordered list of exactly Size hex colors for an image URL.
type Extractor interface {
	Extract(ctx context.Context, imageURL string) ([]string, error)
}

// KMeansExtractor fetches the image and quantizes it with k-means clustering.
type KMeansExtractor struct {
	fetcher *Fetcher
}

func NewKMeansExtractor(f *Fetcher) *KMeansExtractor {
	return &KMeansExtractor{fetcher: f}
}

func (e *KMeansExtractor) Extract(ctx context.Context, imageURL string) ([]string, error) {
	img, err := e.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	return Quantize(img)
}

// Quantize runs k-means over the pixel data and normalizes the result to
// exactly Size hex colors. It only touches the image buffer: no network, no
// database.
func Quantize(img image.Image) ([]string, error) {
	items, err := prominentcolor.KmeansWithAll(Size, img,
		prominentcolor.ArgumentNoCropping, prominentcolor.DefaultSize, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoColors, err)
	}

	hexes := make([]string, 0, len(items))
	for _, it := range items {
		hexes = append(hexes, fmt.Sprintf("#%02x%02x%02x", it.Color.R, it.Color.G, it.Color.B))
	}
	return normalize(hexes)
}

// normalize enforces the exactly-Size contract: truncate extras preserving the
// algorithm's significance order, pad a short list with black, and refuse an
// empty one.
func normalize(hexes []string) ([]string, error) {
	if len(hexes) == 0 {
		return nil, ErrNoColors
	}
	if len(hexes) > Size {
		return hexes[:Size], nil
	}
	for len(hexes) < Size {
		hexes = append(hexes, paddingColor)
	}
	return hexes, nil
}
