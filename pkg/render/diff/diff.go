// Package diff compares two raster images pixel by pixel.
//
// The comparison is the oracle behind reconstruction progress reporting: a
// target image is ground truth and is never distorted, so a candidate of
// different dimensions is resampled to the target's size before comparison.
// Per-pixel color distance is measured in YIQ space with a fixed threshold,
// and anti-aliased pixels are detected and counted separately rather than
// penalized as real differences.
package diff

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// threshold is the fixed YIQ color-distance cutoff. maxYIQDelta is the
// largest possible delta, so the comparison cutoff is their product.
const (
	threshold   = 0.1
	maxYIQDelta = 35215.0
)

// Stats is the result of one comparison.
type Stats struct {
	// SimilarityPercent is (total − diff) / total × 100, rounded to two
	// decimal places. Anti-aliased pixels do not count as diffs.
	SimilarityPercent float64 `json:"similarity_percent"`
	DiffPixelCount    int     `json:"diff_pixel_count"`
	AntialiasedCount  int     `json:"antialiased_count"`
	TotalPixelCount   int     `json:"total_pixel_count"`
	// DiffImage shows the target dimmed to grayscale with differing pixels
	// in red and anti-aliased ones in yellow.
	DiffImage *image.NRGBA `json:"-"`
}

// Compare reports how closely candidate matches target.
func Compare(target, candidate image.Image) Stats {
	tb := target.Bounds()
	w, h := tb.Dx(), tb.Dy()

	if cb := candidate.Bounds(); cb.Dx() != w || cb.Dy() != h {
		candidate = imaging.Resize(candidate, w, h, imaging.Lanczos)
	}

	a := imaging.Clone(target)
	b := imaging.Clone(candidate)
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	var diffs, aa int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pa := a.NRGBAAt(x, y)
			pb := b.NRGBAAt(x, y)

			delta := colorDelta(pa, pb)
			if delta <= threshold*threshold*maxYIQDelta {
				out.SetNRGBA(x, y, dimmed(pa))
				continue
			}
			if antialiased(a, x, y, b) || antialiased(b, x, y, a) {
				aa++
				out.SetNRGBA(x, y, color.NRGBA{R: 255, G: 220, B: 0, A: 255})
				continue
			}
			diffs++
			out.SetNRGBA(x, y, color.NRGBA{R: 255, G: 0, B: 64, A: 255})
		}
	}

	total := w * h
	similarity := 100.0
	if total > 0 {
		similarity = math.Round(float64(total-diffs)/float64(total)*100*100) / 100
	}

	return Stats{
		SimilarityPercent: similarity,
		DiffPixelCount:    diffs,
		AntialiasedCount:  aa,
		TotalPixelCount:   total,
		DiffImage:         out,
	}
}

// =============================================================================
// YIQ Color Distance
// =============================================================================

// colorDelta is the squared YIQ distance between two pixels, weighting
// luma over chroma the way human vision does.
func colorDelta(a, b color.NRGBA) float64 {
	dy := rgb2y(a) - rgb2y(b)
	di := rgb2i(a) - rgb2i(b)
	dq := rgb2q(a) - rgb2q(b)
	return 0.5053*dy*dy + 0.299*di*di + 0.1957*dq*dq
}

func rgb2y(c color.NRGBA) float64 {
	return float64(c.R)*0.29889531 + float64(c.G)*0.58662247 + float64(c.B)*0.11448223
}
func rgb2i(c color.NRGBA) float64 {
	return float64(c.R)*0.59597799 - float64(c.G)*0.27417610 - float64(c.B)*0.32180189
}
func rgb2q(c color.NRGBA) float64 {
	return float64(c.R)*0.21147017 - float64(c.G)*0.52261711 + float64(c.B)*0.31114694
}

// =============================================================================
// Anti-Aliasing Detection
// =============================================================================

// antialiased reports whether the pixel at (x, y) in img looks like an
// anti-aliasing artifact: it sits on a brightness gradient whose darkest
// and brightest neighbors both belong to larger flat regions in both
// images. Such pixels come from edge smoothing, not content differences.
func antialiased(img *image.NRGBA, x, y int, other *image.NRGBA) bool {
	center := img.NRGBAAt(x, y)
	zeroes := 0
	var minDelta, maxDelta float64
	var minX, minY, maxX, maxY int

	for _, n := range neighbors(img.Bounds(), x, y) {
		delta := rgb2y(img.NRGBAAt(n[0], n[1])) - rgb2y(center)
		switch {
		case delta == 0:
			zeroes++
			if zeroes > 2 {
				return false
			}
		case delta < minDelta:
			minDelta, minX, minY = delta, n[0], n[1]
		case delta > maxDelta:
			maxDelta, maxX, maxY = delta, n[0], n[1]
		}
	}

	if minDelta == 0 || maxDelta == 0 {
		return false
	}

	return (hasManySiblings(img, minX, minY) && hasManySiblings(other, minX, minY)) ||
		(hasManySiblings(img, maxX, maxY) && hasManySiblings(other, maxX, maxY))
}

// hasManySiblings reports whether at least two neighbors share the pixel's
// exact color, marking it as part of a flat region.
func hasManySiblings(img *image.NRGBA, x, y int) bool {
	center := img.NRGBAAt(x, y)
	same := 0
	for _, n := range neighbors(img.Bounds(), x, y) {
		if img.NRGBAAt(n[0], n[1]) == center {
			same++
			if same > 2 {
				return true
			}
		}
	}
	return false
}

func neighbors(b image.Rectangle, x, y int) [][2]int {
	out := make([][2]int, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < b.Min.X || ny < b.Min.Y || nx >= b.Max.X || ny >= b.Max.Y {
				continue
			}
			out = append(out, [2]int{nx, ny})
		}
	}
	return out
}

func dimmed(c color.NRGBA) color.NRGBA {
	gray := uint8(rgb2y(c)*0.3 + 178)
	return color.NRGBA{R: gray, G: gray, B: gray, A: 255}
}
